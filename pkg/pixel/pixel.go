// Package pixel provides the raw RGBA8 buffer type shared by every
// component of the selection engine. A Buffer holds either a color image
// or a selection mask; mask producers write the same strength value to
// all four channels so downstream consumers can composite from any one
// of them.
package pixel

import (
	"image"

	"github.com/disintegration/imaging"
)

// Buffer is a width×height grid of 8-bit RGBA samples, row-major,
// origin top-left, 4 bytes per pixel with no row padding.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a zeroed buffer. Non-positive dimensions yield an
// empty buffer.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    make([]uint8, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Offset returns the index of the R sample of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// RGBA returns the four samples of pixel (x, y).
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Strength returns the mask strength at (x, y). Masks replicate the
// strength across channels, so the red sample is authoritative.
func (b *Buffer) Strength(x, y int) uint8 {
	return b.Pix[b.Offset(x, y)]
}

// SetStrength writes v to all four channels of pixel (x, y).
func (b *Buffer) SetStrength(x, y int, v uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = v
	b.Pix[i+1] = v
	b.Pix[i+2] = v
	b.Pix[i+3] = v
}

// SetOpaque writes v to R, G and B and forces alpha to 255. Operations
// that work on strength rather than transparency reset alpha this way.
func (b *Buffer) SetOpaque(x, y int, v uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = v
	b.Pix[i+1] = v
	b.Pix[i+2] = v
	b.Pix[i+3] = 255
}

// RGBA is a plain 8-bit color value used in selector options.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Rect is an integer pixel rectangle.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the rectangle encloses no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Canvas returns the rectangle covering a full width×height buffer.
func Canvas(width, height int) Rect {
	return Rect{X: 0, Y: 0, Width: width, Height: height}
}

// TightBounds returns the smallest rectangle enclosing every pixel with
// strength > 0, or the zero rectangle when the mask is empty.
func TightBounds(mask *Buffer) Rect {
	minX, minY := mask.Width, mask.Height
	maxX, maxY := -1, -1
	for y := 0; y < mask.Height; y++ {
		row := y * mask.Width * 4
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[row+x*4] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// FromImage converts any image.Image into a Buffer.
func FromImage(img image.Image) *Buffer {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	out := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		copy(out.Pix[y*w*4:(y+1)*w*4], src)
	}
	return out
}

// ToImage converts a Buffer into an image.NRGBA sharing no memory with
// the buffer.
func ToImage(b *Buffer) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Width*4], b.Pix[y*b.Width*4:(y+1)*b.Width*4])
	}
	return out
}
