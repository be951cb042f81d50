// Package selection defines the Selection value produced by every
// engine operation and the algebra for combining, inverting and
// resizing selections.
package selection

import (
	"github.com/menta2k/selection-engine/pkg/morph"
	"github.com/menta2k/selection-engine/pkg/pixel"
)

// Selection is an immutable per-pixel soft membership map. Bounds is
// the tight rectangle over all pixels with strength > 0 (the zero
// rectangle when empty). Active is true for every Selection the engine
// produces; "no selection" is represented by the absence of a
// Selection, not by this type.
type Selection struct {
	Mask   *pixel.Buffer
	Bounds pixel.Rect
	Active bool
}

// New wraps a mask buffer in a Selection with freshly computed bounds.
func New(mask *pixel.Buffer) Selection {
	return Selection{
		Mask:   mask,
		Bounds: pixel.TightBounds(mask),
		Active: true,
	}
}

// Mode selects how two masks, or a selector result and an existing
// selection, are merged.
type Mode string

const (
	ModeNew       Mode = "new"
	ModeAdd       Mode = "add"
	ModeSubtract  Mode = "subtract"
	ModeIntersect Mode = "intersect"
	ModeReplace   Mode = "replace"
)

// Combine merges two selections per pixel: add saturates at 255,
// subtract clamps at 0, intersect takes the minimum, and any other mode
// replaces a with b. The operation applies uniformly to R, G and B and
// forces alpha to 255. The output takes a's geometry; where b is
// smaller, its out-of-range samples read as 0.
func Combine(a, b Selection, mode Mode) Selection {
	out := pixel.NewBuffer(a.Mask.Width, a.Mask.Height)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			i := a.Mask.Offset(x, y)
			for c := 0; c < 3; c++ {
				av := int(a.Mask.Pix[i+c])
				bv := 0
				if b.Mask.InBounds(x, y) {
					bv = int(b.Mask.Pix[b.Mask.Offset(x, y)+c])
				}
				var v int
				switch mode {
				case ModeAdd:
					v = av + bv
					if v > 255 {
						v = 255
					}
				case ModeSubtract:
					v = av - bv
					if v < 0 {
						v = 0
					}
				case ModeIntersect:
					v = av
					if bv < v {
						v = bv
					}
				default:
					v = bv
				}
				out.Pix[i+c] = uint8(v)
			}
			out.Pix[i+3] = 255
		}
	}
	return New(out)
}

// Invert flips every mask value (255-v) and forces alpha to 255.
//
// Bounds are reset to the full canvas rectangle rather than recomputed
// from the nonzero extent. Downstream consumers rely on an inverted
// selection covering the whole canvas, so the reset is kept as
// documented behavior.
func Invert(s Selection) Selection {
	out := pixel.NewBuffer(s.Mask.Width, s.Mask.Height)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255 - s.Mask.Pix[i]
		out.Pix[i+1] = 255 - s.Mask.Pix[i+1]
		out.Pix[i+2] = 255 - s.Mask.Pix[i+2]
		out.Pix[i+3] = 255
	}
	return Selection{
		Mask:   out,
		Bounds: pixel.Canvas(out.Width, out.Height),
		Active: true,
	}
}

// Grow expands the selection by radius pixels (morphological dilation).
func Grow(s Selection, radius float64) Selection {
	return New(morph.Dilate(s.Mask, radius))
}

// Shrink contracts the selection by radius pixels (morphological
// erosion).
func Shrink(s Selection, radius float64) Selection {
	return New(morph.Erode(s.Mask, radius))
}

// Feather softens the selection edge with a Gaussian blur of the given
// pixel radius.
func Feather(s Selection, radius float64) Selection {
	if radius < 0 {
		radius = 0
	}
	return New(morph.GaussianBlur(s.Mask, radius))
}

// Smooth rounds off jagged selection edges. Amount ranges 0-100 and
// maps to a blur radius of amount/20 pixels.
func Smooth(s Selection, amount float64) Selection {
	if amount < 0 {
		amount = 0
	} else if amount > 100 {
		amount = 100
	}
	return New(morph.GaussianBlur(s.Mask, amount/20))
}

// FromAlpha builds a selection whose strength is the image's alpha
// channel, replicated to R, G and B with alpha forced to 255.
func FromAlpha(img *pixel.Buffer) Selection {
	out := pixel.NewBuffer(img.Width, img.Height)
	for i := 0; i < len(out.Pix); i += 4 {
		a := img.Pix[i+3]
		out.Pix[i] = a
		out.Pix[i+1] = a
		out.Pix[i+2] = a
		out.Pix[i+3] = 255
	}
	return New(out)
}

// ApplyAsAlpha clips the image's alpha channel to the selection:
// alpha = min(alpha, strength) per pixel. This is the one in-place
// mutation the engine performs, by contract, on the caller's buffer.
func ApplyAsAlpha(img *pixel.Buffer, s Selection) {
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := img.Offset(x, y) + 3
			var strength uint8
			if s.Mask.InBounds(x, y) {
				strength = s.Mask.Strength(x, y)
			}
			if img.Pix[i] > strength {
				img.Pix[i] = strength
			}
		}
	}
}
