package region

import (
	"testing"

	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/selection"
)

// createQuickSelectScene builds a 12x5 image: a homogeneous red block
// at columns 2-4, rows 1-3 on a near-equiluminant background (color
// difference above the stop threshold, luminance difference tiny), and
// a high-contrast black/white strip at columns 8-10 that dominates the
// edge-map normalization.
func createQuickSelectScene() *pixel.Buffer {
	img := pixel.NewBuffer(12, 5)
	setColor := func(x, y int, r, g, b uint8) {
		i := img.Offset(x, y)
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = 255
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 12; x++ {
			setColor(x, y, 50, 120, 66)
		}
	}
	for y := 1; y <= 3; y++ {
		for x := 2; x <= 4; x++ {
			setColor(x, y, 200, 50, 50)
		}
	}
	for y := 0; y < 5; y++ {
		setColor(8, y, 0, 0, 0)
		setColor(9, y, 255, 255, 255)
		setColor(10, y, 0, 0, 0)
	}
	return img
}

func TestQuickSelectGrowsToColorBoundary(t *testing.T) {
	img := createQuickSelectScene()
	sel := NewQuickSelector().Select(img, 3, 2, 1, selection.ModeNew, nil)

	for y := 1; y <= 3; y++ {
		for x := 2; x <= 4; x++ {
			if sel.Mask.Strength(x, y) != 255 {
				t.Errorf("Expected block pixel (%d,%d) selected", x, y)
			}
		}
	}
	for _, p := range [][2]int{{1, 2}, {5, 2}, {3, 0}, {3, 4}, {0, 0}} {
		if sel.Mask.Strength(p[0], p[1]) != 0 {
			t.Errorf("Expected background pixel (%d,%d) unselected", p[0], p[1])
		}
	}

	want := pixel.Rect{X: 2, Y: 1, Width: 3, Height: 3}
	if sel.Bounds != want {
		t.Errorf("Expected bounds %+v, got %+v", want, sel.Bounds)
	}
	if !sel.Active {
		t.Error("Expected an active selection")
	}
}

func TestQuickSelectAlwaysAcceptsImmediateRing(t *testing.T) {
	img := createQuickSelectScene()

	// Seeding on the white strip: its direct neighbors are black with
	// a color difference far above the threshold, but depth 1 cells are
	// selected unconditionally.
	sel := NewQuickSelector().Select(img, 9, 2, 1, selection.ModeNew, nil)
	if sel.Mask.Strength(8, 2) != 255 || sel.Mask.Strength(10, 2) != 255 {
		t.Error("Expected depth-1 neighbors selected regardless of color")
	}
	if sel.Mask.Strength(7, 2) != 0 {
		t.Error("Expected depth-2 cell rejected by the color threshold")
	}
}

func TestQuickSelectOutOfBoundsSeedIsNoOp(t *testing.T) {
	img := createQuickSelectScene()

	sel := NewQuickSelector().Select(img, -3, 2, 5, selection.ModeNew, nil)
	if !sel.Bounds.Empty() {
		t.Errorf("Expected empty selection for out-of-bounds seed, got %+v", sel.Bounds)
	}

	existingMask := pixel.NewBuffer(12, 5)
	existingMask.SetStrength(6, 4, 255)
	existing := selection.New(existingMask)

	out := NewQuickSelector().Select(img, 99, 99, 5, selection.ModeAdd, &existing)
	if out.Mask.Strength(6, 4) != 255 {
		t.Error("Expected existing selection preserved for out-of-bounds seed")
	}
	if &out.Mask.Pix[0] == &existing.Mask.Pix[0] {
		t.Error("Expected a fresh mask copy, not the existing buffer")
	}
}

func TestQuickSelectSubtractClears(t *testing.T) {
	img := createQuickSelectScene()

	full := pixel.NewBuffer(12, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 12; x++ {
			full.SetStrength(x, y, 255)
		}
	}
	existing := selection.New(full)

	sel := NewQuickSelector().Select(img, 3, 2, 1, selection.ModeSubtract, &existing)
	if sel.Mask.Strength(3, 2) != 0 || sel.Mask.Strength(2, 1) != 0 {
		t.Error("Expected subtract mode to clear the grown region")
	}
	if sel.Mask.Strength(1, 2) != 255 {
		t.Error("Expected pixels outside the region to stay selected")
	}
}

func TestQuickSelectZeroRadiusSelectsSeedOnly(t *testing.T) {
	img := createQuickSelectScene()
	sel := NewQuickSelector().Select(img, 3, 2, 0, selection.ModeNew, nil)

	if sel.Mask.Strength(3, 2) != 255 {
		t.Error("Expected the seed pixel selected")
	}
	want := pixel.Rect{X: 3, Y: 2, Width: 1, Height: 1}
	if sel.Bounds != want {
		t.Errorf("Expected single-pixel bounds, got %+v", sel.Bounds)
	}
}

func TestQuickSelectDeterministic(t *testing.T) {
	img := createQuickSelectScene()
	q := NewQuickSelector()

	a := q.Select(img, 3, 2, 4, selection.ModeNew, nil)
	b := q.Select(img, 3, 2, 4, selection.ModeNew, nil)
	for i := range a.Mask.Pix {
		if a.Mask.Pix[i] != b.Mask.Pix[i] {
			t.Fatal("Expected bit-identical output for identical input")
		}
	}
}
