package region

import (
	"math"

	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/selection"
)

// ColorRange names the tone/color band a color-range selection targets.
// Only RangeSampled (direct color distance from the target color) is
// implemented; the other values are accepted and reserved for a future
// tone-range classifier.
type ColorRange string

const (
	RangeSampled    ColorRange = "sampled"
	RangeShadows    ColorRange = "shadows"
	RangeMidtones   ColorRange = "midtones"
	RangeHighlights ColorRange = "highlights"
	RangeReds       ColorRange = "reds"
	RangeYellows    ColorRange = "yellows"
	RangeGreens     ColorRange = "greens"
	RangeCyans      ColorRange = "cyans"
	RangeBlues      ColorRange = "blues"
	RangeMagentas   ColorRange = "magentas"
)

// ColorRangeConfig configures a color-range selection. Fuzziness is
// declared 0-200 and clamps to that range.
type ColorRangeConfig struct {
	TargetColor pixel.RGBA
	Fuzziness   float64
	Range       ColorRange
}

// ColorRangeSelector computes per-pixel soft membership by color
// distance from a target color. There is no connectivity constraint:
// every pixel is scored independently.
type ColorRangeSelector struct {
	config ColorRangeConfig
}

// NewColorRangeSelector creates a selector for the given target color
// and fuzziness with the sampled range behavior.
func NewColorRangeSelector(target pixel.RGBA, fuzziness float64) *ColorRangeSelector {
	return NewColorRangeSelectorWithConfig(ColorRangeConfig{
		TargetColor: target,
		Fuzziness:   fuzziness,
		Range:       RangeSampled,
	})
}

// NewColorRangeSelectorWithConfig creates a selector with custom
// configuration.
func NewColorRangeSelectorWithConfig(config ColorRangeConfig) *ColorRangeSelector {
	if config.Fuzziness < 0 {
		config.Fuzziness = 0
	} else if config.Fuzziness > 200 {
		config.Fuzziness = 200
	}
	return &ColorRangeSelector{config: config}
}

// Select writes round(strength*255) into all four channels, where
// strength = clamp(1 - dist/maxDist, 0, 1), dist is the Euclidean RGB
// distance from the target and maxDist = fuzziness*2.55. With zero
// fuzziness only exact color matches select at full strength.
func (c *ColorRangeSelector) Select(img *pixel.Buffer) selection.Selection {
	mask := pixel.NewBuffer(img.Width, img.Height)
	target := c.config.TargetColor
	maxDist := c.config.Fuzziness * 2.55

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, _ := img.RGBA(x, y)
			dr := float64(r) - float64(target.R)
			dg := float64(g) - float64(target.G)
			db := float64(b) - float64(target.B)
			dist := math.Sqrt(dr*dr + dg*dg + db*db)

			var strength float64
			if maxDist == 0 {
				if dist == 0 {
					strength = 1
				}
			} else {
				strength = 1 - dist/maxDist
				if strength < 0 {
					strength = 0
				} else if strength > 1 {
					strength = 1
				}
			}
			mask.SetStrength(x, y, uint8(math.Round(strength*255)))
		}
	}
	return selection.New(mask)
}
