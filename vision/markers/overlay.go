package markers

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"github.com/markerseg/markerseg/rimage"
)

// DrawOverlay returns a copy of img with every marker circled in its label color and numbered in
// generation order. It is meant for eyeballing generated markers, not for segmentation.
func DrawOverlay(img image.Image, markers []Marker, radius int) image.Image {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	textSize := float64(radius)
	if textSize < 8 {
		textSize = 8
	}
	for i, m := range markers {
		c := m.Label.Color()
		rimage.DrawCircleOutline(dc, m.Point(), float64(radius), c, 2)
		dc.DrawPoint(float64(m.X), float64(m.Y), 1.5)
		dc.Fill()
		rimage.DrawString(dc, fmt.Sprintf("%d", i), m.Point().Add(image.Point{radius + 2, -radius}), c, textSize)
	}
	return dc.Image()
}
