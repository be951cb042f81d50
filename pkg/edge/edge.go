// Package edge computes normalized gradient-magnitude edge maps from
// color images using a 3×3 Sobel operator over luminance.
package edge

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/menta2k/selection-engine/pkg/pixel"
)

// Map holds one normalized gradient magnitude in [0,1] per image pixel.
// Maps are ephemeral: they are recomputed per call and never cached
// across operations.
type Map struct {
	Width  int
	Height int
	Values []float64
}

// At returns the edge strength at (x, y).
func (m *Map) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

// Config holds detector tuning. Sensitivity and Contiguous are accepted
// for forward compatibility; the current stopping thresholds are fixed
// constants.
type Config struct {
	Sensitivity float64
	Radius      float64
	Contiguous  bool
}

// Detector computes edge maps from color images.
type Detector struct {
	config Config
}

// New creates a Detector with default configuration.
func New() *Detector {
	return &Detector{
		config: Config{
			Sensitivity: 50,
			Radius:      1,
			Contiguous:  true,
		},
	}
}

// NewWithConfig creates a Detector with custom configuration.
func NewWithConfig(config Config) *Detector {
	return &Detector{config: config}
}

// ComputeEdgeMap derives a normalized edge map from the image:
// luminance conversion, Sobel gradients skipping a 1-pixel border
// (border pixels get magnitude 0), then division by the global maximum
// magnitude. A flat image yields an all-zero map.
func (d *Detector) ComputeEdgeMap(img *pixel.Buffer) *Map {
	w, h := img.Width, img.Height
	out := &Map{Width: w, Height: h, Values: make([]float64, w*h)}
	if w < 3 || h < 3 {
		return out
	}

	lum := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.RGBA(x, y)
			lum[y*w+x] = 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
		}
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			tl := lum[(y-1)*w+x-1]
			tc := lum[(y-1)*w+x]
			tr := lum[(y-1)*w+x+1]
			ml := lum[y*w+x-1]
			mr := lum[y*w+x+1]
			bl := lum[(y+1)*w+x-1]
			bc := lum[(y+1)*w+x]
			br := lum[(y+1)*w+x+1]

			gx := -tl + tr - 2*ml + 2*mr - bl + br
			gy := -tl - 2*tc - tr + bl + 2*bc + br
			out.Values[y*w+x] = math.Sqrt(gx*gx + gy*gy)
		}
	}

	max := floats.Max(out.Values)
	if max > 0 {
		floats.Scale(1/max, out.Values)
	}
	return out
}
