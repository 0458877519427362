package rimage

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
)

func TestConnectedComponents(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			mask.SetGray(x, y, color.Gray{255})
		}
	}
	// only diagonally connected to the square
	mask.SetGray(4, 4, color.Gray{255})
	mask.SetGray(8, 1, color.Gray{255})

	labels, stats := ConnectedComponents(mask)
	test.That(t, len(labels), test.ShouldEqual, 100)
	test.That(t, stats, test.ShouldHaveLength, 2)

	test.That(t, stats[0], test.ShouldResemble, ComponentStats{
		ID:       1,
		Area:     10,
		Centroid: image.Point{2, 2},
		Bounds:   image.Rect(1, 1, 5, 5),
	})
	test.That(t, stats[1], test.ShouldResemble, ComponentStats{
		ID:       2,
		Area:     1,
		Centroid: image.Point{8, 1},
		Bounds:   image.Rect(8, 1, 9, 2),
	})
	test.That(t, labels[4*10+4], test.ShouldEqual, int32(1))
	test.That(t, labels[1*10+8], test.ShouldEqual, int32(2))
	test.That(t, labels[0], test.ShouldEqual, int32(0))

	_, stats = ConnectedComponents(image.NewGray(image.Rect(0, 0, 3, 3)))
	test.That(t, stats, test.ShouldBeEmpty)
}
