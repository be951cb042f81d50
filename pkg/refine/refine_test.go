package refine

import (
	"testing"

	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/selection"
)

func uniformMask(w, h int, v uint8) selection.Selection {
	m := pixel.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetStrength(x, y, v)
		}
	}
	return selection.New(m)
}

func flatImage(w, h int) *pixel.Buffer {
	img := pixel.NewBuffer(w, h)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 128, 128, 128, 255
	}
	return img
}

func TestRefineEdgeZeroOptionsIsIdentity(t *testing.T) {
	sel := uniformMask(6, 6, 180)
	img := flatImage(6, 6)

	out := New().RefineEdge(sel, img, Options{})
	for i := range sel.Mask.Pix {
		if out.Mask.Pix[i] != sel.Mask.Pix[i] {
			t.Fatal("Expected zeroed options to leave the mask unchanged")
		}
	}
	if &out.Mask.Pix[0] == &sel.Mask.Pix[0] {
		t.Error("Expected the pipeline to work on a private copy")
	}
}

func TestRefineEdgeContrastPushesTowardExtremes(t *testing.T) {
	img := flatImage(4, 4)

	high := New().RefineEdge(uniformMask(4, 4, 200), img, Options{Contrast: 50})
	if v := high.Mask.Strength(1, 1); v != 255 {
		t.Errorf("Expected 200 to saturate to 255 at contrast 50, got %d", v)
	}

	low := New().RefineEdge(uniformMask(4, 4, 60), img, Options{Contrast: 50})
	if v := low.Mask.Strength(1, 1); v != 0 {
		t.Errorf("Expected 60 to clip to 0 at contrast 50, got %d", v)
	}

	mid := New().RefineEdge(uniformMask(4, 4, 128), img, Options{Contrast: 100})
	if v := mid.Mask.Strength(1, 1); v < 127 || v > 130 {
		t.Errorf("Expected midpoint to stay near 128, got %d", v)
	}
}

func TestRefineEdgeShiftMovesBoundary(t *testing.T) {
	img := flatImage(7, 7)

	m := pixel.NewBuffer(7, 7)
	m.SetStrength(3, 3, 255)
	out := New().RefineEdge(selection.New(m), img, Options{Shift: 10})
	for _, p := range [][2]int{{3, 3}, {2, 3}, {4, 3}, {3, 2}, {3, 4}} {
		if out.Mask.Strength(p[0], p[1]) != 255 {
			t.Errorf("Expected positive shift to dilate to (%d,%d)", p[0], p[1])
		}
	}
	if out.Mask.Strength(2, 2) != 0 {
		t.Error("Expected diagonal outside radius-1 dilation")
	}

	block := pixel.NewBuffer(7, 7)
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			block.SetStrength(x, y, 255)
		}
	}
	in := New().RefineEdge(selection.New(block), img, Options{Shift: -10})
	if in.Mask.Strength(3, 3) != 255 {
		t.Error("Expected block center to survive negative shift")
	}
	if in.Mask.Strength(2, 2) != 0 {
		t.Error("Expected block corner to erode under negative shift")
	}
}

func TestRefineEdgeFeatherSoftensAndPreservesInput(t *testing.T) {
	m := pixel.NewBuffer(11, 11)
	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			m.SetStrength(x, y, 255)
		}
	}
	sel := selection.New(m)
	img := flatImage(11, 11)

	out := New().RefineEdge(sel, img, Options{Feather: 1.5})

	partial := false
	for _, v := range out.Mask.Pix {
		if v > 0 && v < 255 {
			partial = true
			break
		}
	}
	if !partial {
		t.Error("Expected feathering to produce partial values")
	}
	if sel.Mask.Strength(3, 5) != 0 || sel.Mask.Strength(5, 5) != 255 {
		t.Error("Expected the input mask to stay untouched")
	}
}

func TestRefineEdgeSmartRadiusSnapsToImageEdges(t *testing.T) {
	// Black left half, white right half: the only strong image edge sits
	// at the column 4/5 boundary. A uniform partial mask puts every pixel
	// in the edge zone, so only those columns snap to hard values.
	img := pixel.NewBuffer(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := uint8(0)
			if x >= 5 {
				v = 255
			}
			i := img.Offset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
		}
	}
	sel := uniformMask(10, 10, 200)

	out := New().RefineEdge(sel, img, Options{Radius: 1})
	if out.Mask.Strength(4, 2) != 255 || out.Mask.Strength(5, 2) != 255 {
		t.Error("Expected mask to snap to 255 on the strong image edge")
	}
	if out.Mask.Strength(3, 2) != 200 || out.Mask.Strength(6, 2) != 200 {
		t.Error("Expected mask untouched away from the strong edge")
	}
	// Sobel skips the image border, so the edge columns stay soft there.
	if out.Mask.Strength(4, 0) != 200 {
		t.Error("Expected border row untouched by smart radius")
	}
}

func TestRefineEdgeDecontaminateIsCarriedNotApplied(t *testing.T) {
	sel := uniformMask(5, 5, 140)
	img := flatImage(5, 5)

	plain := New().RefineEdge(sel, img, Options{})
	marked := New().RefineEdge(sel, img, Options{Decontaminate: true, DecontaminateAmount: 80})
	for i := range plain.Mask.Pix {
		if plain.Mask.Pix[i] != marked.Mask.Pix[i] {
			t.Fatal("Expected decontamination flags to leave pixels alone")
		}
	}
}

func TestOptionsClamping(t *testing.T) {
	o := Options{Radius: -3, Smooth: 500, Feather: -1, Contrast: -20, Shift: 400, DecontaminateAmount: -9}.clamped()
	if o.Radius != 0 || o.Smooth != 100 || o.Feather != 0 || o.Contrast != 0 || o.Shift != 100 || o.DecontaminateAmount != 0 {
		t.Errorf("Unexpected clamped options: %+v", o)
	}
}
