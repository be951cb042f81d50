// Package selectionengine computes, grows, combines and refines
// selection masks over raw RGBA pixel buffers for a layered raster
// editor.
//
// Every operation is a pure transform: it consumes an image buffer and
// optionally an existing Selection and returns a freshly allocated
// Selection (mask + tight bounds + active flag). Selections chain: the
// output of one operation is valid input to the next. Given identical
// inputs every operation produces bit-identical output.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		selectionengine "github.com/menta2k/selection-engine"
//		"github.com/menta2k/selection-engine/pkg/imageio"
//		"github.com/menta2k/selection-engine/pkg/refine"
//	)
//
//	func main() {
//		files := imageio.New()
//		img, err := files.Load("photo.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		engine := selectionengine.New()
//		sel := engine.SelectSubject(img)
//		sel = engine.RefineEdge(sel, img, refine.Options{Radius: 2, Feather: 1.5})
//
//		fmt.Printf("subject bounds: %+v\n", sel.Bounds)
//		if err := files.Save(sel.Mask, "subject_mask.png"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The components live in their own packages (pkg/edge, pkg/morph,
// pkg/region, pkg/refine, pkg/selection); Engine is a thin facade over
// them exposing the flat operation surface.
package selectionengine

import (
	"github.com/menta2k/selection-engine/pkg/edge"
	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/refine"
	"github.com/menta2k/selection-engine/pkg/region"
	"github.com/menta2k/selection-engine/pkg/selection"
)

// Engine bundles the selectors and the refiner behind the flat
// operation surface. It holds no mutable state between calls, so one
// Engine can serve any number of sequential operations.
type Engine struct {
	detector *edge.Detector
	quick    *region.QuickSelector
	subject  *region.SubjectSelector
	refiner  *refine.Refiner
}

// New creates an Engine with default component configuration.
func New() *Engine {
	return &Engine{
		detector: edge.New(),
		quick:    region.NewQuickSelector(),
		subject:  region.NewSubjectSelector(),
		refiner:  refine.New(),
	}
}

// ComputeEdgeMap returns the normalized Sobel edge map of the image.
func (e *Engine) ComputeEdgeMap(img *pixel.Buffer) *edge.Map {
	return e.detector.ComputeEdgeMap(img)
}

// QuickSelect grows an edge-aware selection from a seed point.
func (e *Engine) QuickSelect(img *pixel.Buffer, startX, startY, radius float64, mode selection.Mode, existing *selection.Selection) selection.Selection {
	return e.quick.Select(img, startX, startY, radius, mode, existing)
}

// SelectSubject selects the most salient connected region of the image.
func (e *Engine) SelectSubject(img *pixel.Buffer) selection.Selection {
	return e.subject.Select(img)
}

// SelectColorRange selects pixels by color distance from the target.
func (e *Engine) SelectColorRange(img *pixel.Buffer, target pixel.RGBA, fuzziness float64) selection.Selection {
	return region.NewColorRangeSelector(target, fuzziness).Select(img)
}

// GrowSelection expands the selection by radius pixels.
func (e *Engine) GrowSelection(sel selection.Selection, radius float64) selection.Selection {
	return selection.Grow(sel, radius)
}

// ShrinkSelection contracts the selection by radius pixels.
func (e *Engine) ShrinkSelection(sel selection.Selection, radius float64) selection.Selection {
	return selection.Shrink(sel, radius)
}

// FeatherSelection softens the selection edge by a Gaussian blur of the
// given pixel radius.
func (e *Engine) FeatherSelection(sel selection.Selection, radius float64) selection.Selection {
	return selection.Feather(sel, radius)
}

// SmoothSelection rounds off jagged selection edges; amount is 0-100.
func (e *Engine) SmoothSelection(sel selection.Selection, amount float64) selection.Selection {
	return selection.Smooth(sel, amount)
}

// InvertSelection flips the selection mask. Bounds reset to the full
// canvas; see selection.Invert.
func (e *Engine) InvertSelection(sel selection.Selection) selection.Selection {
	return selection.Invert(sel)
}

// CombineSelections merges two selections under the given mode.
func (e *Engine) CombineSelections(a, b selection.Selection, mode selection.Mode) selection.Selection {
	return selection.Combine(a, b, mode)
}

// RefineEdge runs the multi-stage refinement pipeline on the selection.
func (e *Engine) RefineEdge(sel selection.Selection, img *pixel.Buffer, opts refine.Options) selection.Selection {
	return e.refiner.RefineEdge(sel, img, opts)
}

// SelectionFromAlpha builds a selection from the image's alpha channel.
func (e *Engine) SelectionFromAlpha(img *pixel.Buffer) selection.Selection {
	return selection.FromAlpha(img)
}

// ApplySelectionAsAlpha clips the image's alpha channel to the
// selection, in place on the caller's buffer.
func (e *Engine) ApplySelectionAsAlpha(img *pixel.Buffer, sel selection.Selection) {
	selection.ApplyAsAlpha(img, sel)
}
