// Package region implements the three region selectors: edge-aware
// flood growth (quick select), saliency-based subject selection and
// soft color-range selection.
package region

import (
	"math"

	"github.com/menta2k/selection-engine/pkg/edge"
	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/selection"
)

// Flood growth stops at strong image edges and large color deviations
// from the seed. The thresholds are fixed in this version; the
// edge.Config sensitivity knobs are reserved.
const (
	edgeStopThreshold  = 0.3
	colorStopThreshold = 150
)

// QuickSelector grows an edge-aware selection outward from a seed
// point, mimicking a smart selection brush.
type QuickSelector struct {
	detector *edge.Detector
}

// NewQuickSelector creates a QuickSelector with a default edge
// detector.
func NewQuickSelector() *QuickSelector {
	return &QuickSelector{detector: edge.New()}
}

// NewQuickSelectorWithConfig creates a QuickSelector with custom edge
// detector tuning.
func NewQuickSelectorWithConfig(config edge.Config) *QuickSelector {
	return &QuickSelector{detector: edge.NewWithConfig(config)}
}

type floodCell struct {
	x, y  int
	depth int
}

// Select flood-grows from (startX, startY) over a breadth-first
// 4-neighbor traversal. The seed and its immediate ring (depth ≤ 1) are
// always accepted; beyond that a cell is rejected when it lies farther
// than radius*3 from the seed, sits on an edge stronger than 0.3, or
// deviates from the seed color by more than 150 (|Δr|+|Δg|+|Δb|).
// Accepted cells write 255 (modes new/add) or 0 (subtract) into a copy
// of the existing selection's mask, or a fresh zero mask. A seed
// outside the image is a no-op.
func (q *QuickSelector) Select(img *pixel.Buffer, startX, startY, radius float64, mode selection.Mode, existing *selection.Selection) selection.Selection {
	mask := pixel.NewBuffer(img.Width, img.Height)
	if existing != nil && existing.Mask.Width == img.Width && existing.Mask.Height == img.Height {
		mask = existing.Mask.Clone()
	}

	sx := int(math.Floor(startX))
	sy := int(math.Floor(startY))
	if !img.InBounds(sx, sy) {
		return selection.New(mask)
	}
	if radius < 0 {
		radius = 0
	}

	edges := q.detector.ComputeEdgeMap(img)
	seedR, seedG, seedB, _ := img.RGBA(sx, sy)

	var write uint8 = 255
	if mode == selection.ModeSubtract {
		write = 0
	}

	limit := radius * 3
	limitSq := limit * limit

	visited := make([]bool, img.Width*img.Height)
	visited[sy*img.Width+sx] = true
	queue := []floodCell{{x: sx, y: sy, depth: 0}}

	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]

		// The seed and its immediate ring are selected unconditionally;
		// the stopping rules only apply from depth 2 outward. Dropping
		// this easing changes the shape of small-radius strokes.
		if cell.depth > 1 {
			dx := float64(cell.x - sx)
			dy := float64(cell.y - sy)
			if dx*dx+dy*dy > limitSq {
				continue
			}
			if edges.At(cell.x, cell.y) > edgeStopThreshold {
				continue
			}
			r, g, b, _ := img.RGBA(cell.x, cell.y)
			diff := absInt(int(r)-int(seedR)) + absInt(int(g)-int(seedG)) + absInt(int(b)-int(seedB))
			if diff > colorStopThreshold {
				continue
			}
		}

		mask.SetStrength(cell.x, cell.y, write)

		if float64(cell.depth) >= limit {
			continue
		}
		for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			nx, ny := cell.x+d[0], cell.y+d[1]
			if !img.InBounds(nx, ny) {
				continue
			}
			idx := ny*img.Width + nx
			if visited[idx] {
				continue
			}
			visited[idx] = true
			queue = append(queue, floodCell{x: nx, y: ny, depth: cell.depth + 1})
		}
	}

	return selection.New(mask)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
