package rimage

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Commonly used colors.
var (
	Red   = color.NRGBA{R: 255, A: 255}
	Green = color.NRGBA{G: 255, A: 255}
	Black = color.NRGBA{A: 255}
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// goldenAngle spreads successive hues as far apart as possible.
const goldenAngle = 137.50776405003785

// RegionColor returns a distinct, deterministic opaque color for the i-th region of a label image.
func RegionColor(i int) color.NRGBA {
	hue := math.Mod(float64(i)*goldenAngle, 360)
	// alternate value so neighbouring hues stay apart after wrap around.
	v := 0.95
	if i%2 == 1 {
		v = 0.75
	}
	c := colorful.Hsv(hue, 0.85, v).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 255}
}
