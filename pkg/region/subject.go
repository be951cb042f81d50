package region

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/menta2k/selection-engine/pkg/edge"
	"github.com/menta2k/selection-engine/pkg/morph"
	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/selection"
)

// SubjectConfig holds tuning for the saliency heuristic. The defaults
// are the production constants; the expansion threshold is derived as
// SeedThreshold*0.8.
type SubjectConfig struct {
	EdgeWeight       float64
	CenterWeight     float64
	SaturationWeight float64
	SeedThreshold    float64
	MinRegionSize    int
	CloseRadius      float64
}

// SubjectSelector picks the most salient connected region of an image.
// The saliency score is a deterministic heuristic over edge strength,
// center distance and color saturation; no model inference is involved.
type SubjectSelector struct {
	detector *edge.Detector
	config   SubjectConfig
}

// NewSubjectSelector creates a SubjectSelector with default
// configuration.
func NewSubjectSelector() *SubjectSelector {
	return &SubjectSelector{
		detector: edge.New(),
		config: SubjectConfig{
			EdgeWeight:       0.3,
			CenterWeight:     0.4,
			SaturationWeight: 0.3,
			SeedThreshold:    0.35,
			MinRegionSize:    100,
			CloseRadius:      3,
		},
	}
}

// NewSubjectSelectorWithConfig creates a SubjectSelector with custom
// configuration.
func NewSubjectSelectorWithConfig(config SubjectConfig) *SubjectSelector {
	return &SubjectSelector{detector: edge.New(), config: config}
}

// Select builds a saliency map, flood-fills salient regions from
// interior seed pixels, and paints the region with the highest summed
// saliency at full strength, smoothed by a morphological closing. If no
// region of at least MinRegionSize pixels exists, the result is an
// empty selection with degenerate bounds.
func (s *SubjectSelector) Select(img *pixel.Buffer) selection.Selection {
	w, h := img.Width, img.Height
	mask := pixel.NewBuffer(w, h)
	saliency := s.saliencyMap(img)

	visited := make([]bool, w*h)
	expandThreshold := s.config.SeedThreshold * 0.8

	var bestRegion []int
	bestScore := math.Inf(-1)
	scratch := make([]float64, 0, 256)

	// Seed scan excludes the 1-pixel border; expansion may reach it.
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := y*w + x
			if visited[idx] || saliency[idx] < s.config.SeedThreshold {
				continue
			}
			region := floodRegion(saliency, visited, w, h, idx, expandThreshold)
			if len(region) < s.config.MinRegionSize {
				continue
			}
			scratch = scratch[:0]
			for _, i := range region {
				scratch = append(scratch, saliency[i])
			}
			if score := floats.Sum(scratch); score > bestScore {
				bestScore = score
				bestRegion = region
			}
		}
	}

	if bestRegion == nil {
		return selection.New(mask)
	}
	for _, idx := range bestRegion {
		mask.SetStrength(idx%w, idx/w, 255)
	}
	return selection.New(morph.Close(mask, s.config.CloseRadius))
}

// saliencyMap blends edge strength, a center-distance bias and color
// saturation into one [0,1] score per pixel.
func (s *SubjectSelector) saliencyMap(img *pixel.Buffer) []float64 {
	w, h := img.Width, img.Height
	edges := s.detector.ComputeEdgeMap(img)

	cx := float64(w) / 2
	cy := float64(h) / 2
	maxDist := math.Sqrt(cx*cx + cy*cy)

	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.RGBA(x, y)
			saturation := float64(max(r, g, b) - min(r, g, b))

			centerBias := 1.0
			if maxDist > 0 {
				dx := float64(x) - cx
				dy := float64(y) - cy
				centerBias = 1 - 0.5*(math.Sqrt(dx*dx+dy*dy)/maxDist)
			}

			out[y*w+x] = s.config.EdgeWeight*edges.Values[y*w+x] +
				s.config.CenterWeight*centerBias +
				s.config.SaturationWeight*(saturation/255)
		}
	}
	return out
}

// floodRegion collects the 4-connected region around seed whose
// saliency stays at or above threshold, using an explicit stack over
// linear indices. The traversal order only affects visitation, not
// membership, so the result is order-independent.
func floodRegion(saliency []float64, visited []bool, w, h, seed int, threshold float64) []int {
	var region []int
	stack := []int{seed}
	visited[seed] = true
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region = append(region, idx)

		x, y := idx%w, idx/w
		for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			nidx := ny*w + nx
			if visited[nidx] || saliency[nidx] < threshold {
				continue
			}
			visited[nidx] = true
			stack = append(stack, nidx)
		}
	}
	return region
}
