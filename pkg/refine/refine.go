// Package refine implements the multi-stage refine-edge pipeline:
// edge-zone detection, smart radius, smoothing, feathering, contrast
// and edge shift, composed from the morph kernels.
package refine

import (
	"math"

	"github.com/menta2k/selection-engine/pkg/edge"
	"github.com/menta2k/selection-engine/pkg/morph"
	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/selection"
)

// Output names the target the external consumer materializes a refined
// selection into. The engine carries it through unchanged.
type Output string

const (
	OutputSelection        Output = "selection"
	OutputLayerMask        Output = "layerMask"
	OutputNewLayer         Output = "newLayer"
	OutputNewLayerWithMask Output = "newLayerWithMask"
	OutputNewDocument      Output = "newDocument"
)

// Options configures RefineEdge. Out-of-range values clamp to the
// documented ranges instead of failing. Decontaminate and
// DecontaminateAmount are informational in this core: they are carried
// through for the consumer that materializes the result and never
// change pixel colors here.
type Options struct {
	Radius              float64 // edge detection radius, px, >= 0
	Smooth              float64 // 0-100
	Feather             float64 // px, >= 0
	Contrast            float64 // 0-100
	Shift               float64 // -100..100
	Decontaminate       bool
	DecontaminateAmount float64 // 0-100
	Output              Output
}

func (o Options) clamped() Options {
	clamp := func(v, lo, hi float64) float64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	o.Radius = math.Max(o.Radius, 0)
	o.Smooth = clamp(o.Smooth, 0, 100)
	o.Feather = math.Max(o.Feather, 0)
	o.Contrast = clamp(o.Contrast, 0, 100)
	o.Shift = clamp(o.Shift, -100, 100)
	o.DecontaminateAmount = clamp(o.DecontaminateAmount, 0, 100)
	return o
}

// Refiner runs the refine-edge pipeline.
type Refiner struct {
	detector *edge.Detector
}

// New creates a Refiner with a default edge detector.
func New() *Refiner {
	return &Refiner{detector: edge.New()}
}

// RefineEdge applies the pipeline stages in order on a private copy of
// the selection mask: edge-zone detection, smart radius, smooth,
// feather, contrast, then edge shift. Bounds are recomputed at the end.
func (r *Refiner) RefineEdge(sel selection.Selection, img *pixel.Buffer, opts Options) selection.Selection {
	opts = opts.clamped()
	mask := sel.Mask.Clone()
	w, h := mask.Width, mask.Height

	zone := edgeZone(mask, opts.Radius)

	// Smart radius: where the image has a strong edge inside the zone,
	// snap the mask to hard 0/255; elsewhere the gradient is kept.
	if opts.Radius > 0 {
		edges := r.detector.ComputeEdgeMap(img)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !zone[y*w+x] || edges.At(x, y) <= 0.5 {
					continue
				}
				if mask.Strength(x, y) > 127 {
					mask.SetOpaque(x, y, 255)
				} else {
					mask.SetOpaque(x, y, 0)
				}
			}
		}
	}

	if opts.Smooth > 0 {
		mask = morph.GaussianBlur(mask, opts.Smooth/20)
	}
	if opts.Feather > 0 {
		mask = morph.GaussianBlur(mask, opts.Feather)
	}

	if opts.Contrast > 0 {
		amount := opts.Contrast / 50
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := float64(mask.Strength(x, y)) / 255
				v = (v-0.5)*(1+amount) + 0.5
				nv := math.Round(v * 255)
				if nv < 0 {
					nv = 0
				} else if nv > 255 {
					nv = 255
				}
				mask.SetOpaque(x, y, uint8(nv))
			}
		}
	}

	switch {
	case opts.Shift > 0:
		mask = morph.Dilate(mask, opts.Shift/10)
	case opts.Shift < 0:
		mask = morph.Erode(mask, -opts.Shift/10)
	}

	return selection.New(mask)
}

// edgeZone marks the pixels of the mask's transition boundary: any
// pixel with a partial value (strictly between 0 and 255) or whose
// 8-neighborhood contains a value differing from it by more than 128.
// Each such seed then marks every pixel within a circular neighborhood
// of radius around it. This dilation of the zone itself is independent
// of the mask dilation performed by the shift stage.
func edgeZone(mask *pixel.Buffer, radius float64) []bool {
	w, h := mask.Width, mask.Height
	zone := make([]bool, w*h)
	var seeds []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int(mask.Strength(x, y))
			inZone := v > 0 && v < 255
			if !inZone {
				for dy := -1; dy <= 1 && !inZone; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := x+dx, y+dy
						if !mask.InBounds(nx, ny) {
							continue
						}
						diff := int(mask.Strength(nx, ny)) - v
						if diff > 128 || diff < -128 {
							inZone = true
							break
						}
					}
				}
			}
			if inZone {
				seeds = append(seeds, y*w+x)
			}
		}
	}

	rc := int(math.Ceil(radius))
	rsq := radius * radius
	for _, seed := range seeds {
		sx, sy := seed%w, seed/w
		for dy := -rc; dy <= rc; dy++ {
			ny := sy + dy
			if ny < 0 || ny >= h {
				continue
			}
			for dx := -rc; dx <= rc; dx++ {
				if float64(dx*dx+dy*dy) > rsq {
					continue
				}
				nx := sx + dx
				if nx < 0 || nx >= w {
					continue
				}
				zone[ny*w+nx] = true
			}
		}
	}
	return zone
}
