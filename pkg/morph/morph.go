// Package morph implements the morphological and convolution kernels
// the selection engine is built on: dilate, erode, close, separable
// Gaussian blur and median filtering. All operations read the strength
// channel of a mask buffer, write identical values to R, G and B, and
// reset alpha to opaque; they work on strength, not transparency.
package morph

import (
	"math"
	"sort"

	"github.com/menta2k/selection-engine/pkg/pixel"
)

// Dilate grows a mask: each output pixel takes the maximum strength
// over all input pixels within Euclidean distance radius. Out-of-bounds
// neighbors are skipped.
func Dilate(mask *pixel.Buffer, radius float64) *pixel.Buffer {
	return rank(mask, radius, true)
}

// Erode shrinks a mask: the minimum over the same circular
// neighborhood.
func Erode(mask *pixel.Buffer, radius float64) *pixel.Buffer {
	return rank(mask, radius, false)
}

// Close performs a morphological closing: dilate then erode with the
// same radius. Closes small gaps and removes small holes without
// growing the overall shape.
func Close(mask *pixel.Buffer, radius float64) *pixel.Buffer {
	return Erode(Dilate(mask, radius), radius)
}

// GaussianBlur applies a separable two-pass Gaussian blur with
// sigma = radius and kernel support ceil(radius*3) each side. A radius
// below 0.5 is an identity and returns an unchanged copy of the input.
func GaussianBlur(mask *pixel.Buffer, radius float64) *pixel.Buffer {
	return new(Workspace).GaussianBlur(mask, radius)
}

// MedianFilter replaces each pixel by the median of the in-bounds
// samples in its (2·ceil(radius)+1)² square neighborhood, taking the
// element at index count/2 of the sorted samples.
func MedianFilter(mask *pixel.Buffer, radius float64) *pixel.Buffer {
	return new(Workspace).MedianFilter(mask, radius)
}

// Workspace holds reusable scratch buffers for the blur intermediate
// and median sample slices, for callers that run many refinement passes
// and want to avoid per-call allocations. A Workspace is not safe for
// concurrent use; the zero value is ready to use.
type Workspace struct {
	line    []float64
	samples []uint8
}

func (w *Workspace) scratchLine(n int) []float64 {
	if cap(w.line) < n {
		w.line = make([]float64, n)
	}
	return w.line[:n]
}

func (w *Workspace) scratchSamples(n int) []uint8 {
	if cap(w.samples) < n {
		w.samples = make([]uint8, n)
	}
	return w.samples[:0]
}

func rank(mask *pixel.Buffer, radius float64, takeMax bool) *pixel.Buffer {
	if radius < 0 {
		radius = 0
	}
	r := int(math.Ceil(radius))
	rsq := radius * radius
	out := pixel.NewBuffer(mask.Width, mask.Height)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			var best uint8
			if !takeMax {
				best = 255
			}
			for dy := -r; dy <= r; dy++ {
				ny := y + dy
				if ny < 0 || ny >= mask.Height {
					continue
				}
				for dx := -r; dx <= r; dx++ {
					if float64(dx*dx+dy*dy) > rsq {
						continue
					}
					nx := x + dx
					if nx < 0 || nx >= mask.Width {
						continue
					}
					v := mask.Strength(nx, ny)
					if takeMax {
						if v > best {
							best = v
						}
					} else if v < best {
						best = v
					}
				}
			}
			out.SetOpaque(x, y, best)
		}
	}
	return out
}

// GaussianBlur is the workspace form of the package-level GaussianBlur.
func (w *Workspace) GaussianBlur(mask *pixel.Buffer, radius float64) *pixel.Buffer {
	if radius < 0.5 {
		return mask.Clone()
	}
	support := int(math.Ceil(radius * 3))
	sigma := radius
	kernel := make([]float64, 2*support+1)
	sum := 0.0
	for i := -support; i <= support; i++ {
		kernel[i+support] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
		sum += kernel[i+support]
	}
	if sum > 0 {
		for i := range kernel {
			kernel[i] /= sum
		}
	}

	width, height := mask.Width, mask.Height
	tmp := w.scratchLine(width * height)

	// Horizontal pass, clamp-to-edge sampling. The intermediate stays
	// in float64 so quantization happens once after the vertical pass.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			acc := 0.0
			for i := -support; i <= support; i++ {
				sx := x + i
				if sx < 0 {
					sx = 0
				} else if sx >= width {
					sx = width - 1
				}
				acc += kernel[i+support] * float64(mask.Strength(sx, y))
			}
			tmp[y*width+x] = acc
		}
	}

	out := pixel.NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			acc := 0.0
			for i := -support; i <= support; i++ {
				sy := y + i
				if sy < 0 {
					sy = 0
				} else if sy >= height {
					sy = height - 1
				}
				acc += kernel[i+support] * tmp[sy*width+x]
			}
			v := math.Round(acc)
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			out.SetOpaque(x, y, uint8(v))
		}
	}
	return out
}

// MedianFilter is the workspace form of the package-level MedianFilter.
func (w *Workspace) MedianFilter(mask *pixel.Buffer, radius float64) *pixel.Buffer {
	if radius < 0 {
		radius = 0
	}
	r := int(math.Ceil(radius))
	out := pixel.NewBuffer(mask.Width, mask.Height)
	side := 2*r + 1
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			samples := w.scratchSamples(side * side)
			for dy := -r; dy <= r; dy++ {
				ny := y + dy
				if ny < 0 || ny >= mask.Height {
					continue
				}
				for dx := -r; dx <= r; dx++ {
					nx := x + dx
					if nx < 0 || nx >= mask.Width {
						continue
					}
					samples = append(samples, mask.Strength(nx, ny))
				}
			}
			sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
			out.SetOpaque(x, y, samples[len(samples)/2])
			w.samples = samples
		}
	}
	return out
}
