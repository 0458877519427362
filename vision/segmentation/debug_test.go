package segmentation

import (
	"context"
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
)

func TestComputeDiagnostics(t *testing.T) {
	// dark left half, bright right half
	img := image.NewGray(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 3; x < 6; x++ {
			img.SetGray(x, y, color.Gray{255})
		}
	}
	conf := DefaultConfig()
	conf.GradientSigma = 0

	d, err := ComputeDiagnostics(context.Background(), img, conf, 0)
	test.That(t, err, test.ShouldBeNil)
	for _, b := range []image.Rectangle{d.Gradient.Bounds(), d.Elevation.Bounds(), d.Regions.Bounds()} {
		test.That(t, b, test.ShouldResemble, image.Rect(0, 0, 6, 4))
	}
	test.That(t, d.Gradient.GrayAt(0, 1).Y, test.ShouldEqual, 0)
	test.That(t, d.Gradient.GrayAt(2, 1).Y, test.ShouldEqual, 255)
	test.That(t, d.Elevation.GrayAt(5, 1).Y, test.ShouldEqual, 0)
	test.That(t, d.Elevation.GrayAt(3, 1).Y, test.ShouldEqual, 255)

	// flat areas are one region each, the edge pixels stay apart at level 0
	test.That(t, d.Regions.NRGBAAt(0, 0), test.ShouldResemble, d.Regions.NRGBAAt(1, 3))
	test.That(t, d.Regions.NRGBAAt(4, 0), test.ShouldResemble, d.Regions.NRGBAAt(5, 3))
	test.That(t, d.Regions.NRGBAAt(0, 0), test.ShouldNotResemble, d.Regions.NRGBAAt(4, 0))
	test.That(t, d.Regions.NRGBAAt(2, 0), test.ShouldNotResemble, d.Regions.NRGBAAt(3, 0))

	d, err = ComputeDiagnostics(context.Background(), img, conf, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.Regions.NRGBAAt(0, 0), test.ShouldResemble, d.Regions.NRGBAAt(5, 3))

	t.Run("empty image", func(t *testing.T) {
		_, err := ComputeDiagnostics(context.Background(), image.NewGray(image.Rect(0, 0, 0, 0)), conf, 0)
		test.That(t, err, test.ShouldNotBeNil)
	})
}
