package rimage

import (
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"
	"go.viam.com/test"
)

func countColor(img *image.NRGBA, c color.NRGBA) int {
	n := 0
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			if img.NRGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestFillDisc(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 11, 11))
	FillDisc(img, image.Point{5, 5}, 2, Green)
	test.That(t, countColor(img, Green), test.ShouldEqual, 13)
	test.That(t, img.NRGBAAt(7, 5), test.ShouldResemble, Green)
	test.That(t, img.NRGBAAt(7, 6), test.ShouldResemble, color.NRGBA{})

	corner := image.NewNRGBA(image.Rect(0, 0, 11, 11))
	FillDisc(corner, image.Point{0, 0}, 2, Red)
	test.That(t, countColor(corner, Red), test.ShouldEqual, 6)
}

func TestDrawHelpers(t *testing.T) {
	dc := gg.NewContext(40, 20)
	dc.SetColor(Black)
	dc.Clear()
	DrawCircleOutline(dc, image.Point{20, 10}, 5, Red, 1)
	DrawString(dc, "fg", image.Point{3, 12}, Green, 8)
	test.That(t, Font(), test.ShouldNotBeNil)
	test.That(t, dc.Image().Bounds(), test.ShouldResemble, image.Rect(0, 0, 40, 20))
}
