package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer(4, 3)
	if b.Width != 4 || b.Height != 3 {
		t.Errorf("Expected 4x3 buffer, got %dx%d", b.Width, b.Height)
	}
	if len(b.Pix) != 4*3*4 {
		t.Errorf("Expected %d samples, got %d", 4*3*4, len(b.Pix))
	}

	neg := NewBuffer(-1, 5)
	if neg.Width != 0 || len(neg.Pix) != 0 {
		t.Error("Expected negative width to clamp to an empty buffer")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBuffer(2, 2)
	b.SetStrength(1, 1, 200)

	c := b.Clone()
	c.SetStrength(0, 0, 99)

	if b.Strength(0, 0) != 0 {
		t.Error("Clone write leaked into the original buffer")
	}
	if c.Strength(1, 1) != 200 {
		t.Error("Clone did not copy existing pixels")
	}
}

func TestSetStrengthWritesAllChannels(t *testing.T) {
	b := NewBuffer(1, 1)
	b.SetStrength(0, 0, 77)
	r, g, bl, a := b.RGBA(0, 0)
	if r != 77 || g != 77 || bl != 77 || a != 77 {
		t.Errorf("Expected all channels 77, got %d %d %d %d", r, g, bl, a)
	}

	b.SetOpaque(0, 0, 33)
	r, g, bl, a = b.RGBA(0, 0)
	if r != 33 || g != 33 || bl != 33 || a != 255 {
		t.Errorf("Expected 33/33/33/255, got %d %d %d %d", r, g, bl, a)
	}
}

func TestTightBounds(t *testing.T) {
	b := NewBuffer(10, 8)
	if got := TightBounds(b); !got.Empty() {
		t.Errorf("Expected empty bounds for zero mask, got %+v", got)
	}

	b.SetStrength(3, 2, 1)
	b.SetStrength(7, 5, 255)
	got := TightBounds(b)
	want := Rect{X: 3, Y: 2, Width: 5, Height: 4}
	if got != want {
		t.Errorf("Expected bounds %+v, got %+v", want, got)
	}
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(2, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	buf := FromImage(src)
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("Expected 3x2 buffer, got %dx%d", buf.Width, buf.Height)
	}
	r, g, b, a := buf.RGBA(2, 1)
	if r != 200 || g != 100 || b != 50 || a != 128 {
		t.Errorf("Expected 200/100/50/128, got %d/%d/%d/%d", r, g, b, a)
	}

	back := ToImage(buf)
	if got := back.NRGBAAt(0, 0); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("Round trip changed pixel (0,0): %+v", got)
	}
}

func TestCanvas(t *testing.T) {
	c := Canvas(6, 4)
	if c.X != 0 || c.Y != 0 || c.Width != 6 || c.Height != 4 {
		t.Errorf("Unexpected canvas rect: %+v", c)
	}
}
