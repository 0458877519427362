package segmentation

import (
	"image"
	"testing"

	"go.viam.com/test"

	"github.com/markerseg/markerseg/logging"
	"github.com/markerseg/markerseg/rimage"
)

func TestROIThresholdKeepsBoxEdges(t *testing.T) {
	// foreground marker pixels at (2,2) and (5,4) span the box [2,5]x[2,4], both ends included.
	gray := uniform(8, 7, 200)
	for y := 2; y < 4; y++ {
		for x := 2; x < 5; x++ {
			gray.Pix[y*gray.Stride+x] = 50
		}
	}
	fg := image.NewGray(gray.Bounds())
	fg.Pix[fg.PixOffset(2, 2)] = 255
	fg.Pix[fg.PixOffset(5, 4)] = 255

	mask := ROIThreshold(gray, fg, logging.NewTestLogger(t))
	test.That(t, mask.Bounds(), test.ShouldResemble, gray.Bounds())
	// the bright last column and last row of the box are foreground
	test.That(t, mask.GrayAt(5, 2).Y, test.ShouldEqual, 255)
	test.That(t, mask.GrayAt(5, 3).Y, test.ShouldEqual, 255)
	test.That(t, mask.GrayAt(2, 4).Y, test.ShouldEqual, 255)
	test.That(t, mask.GrayAt(5, 4).Y, test.ShouldEqual, 255)
	test.That(t, mask.GrayAt(3, 3).Y, test.ShouldEqual, 0)
	// bright pixels just outside the box stay background
	test.That(t, mask.GrayAt(6, 3).Y, test.ShouldEqual, 0)
	test.That(t, mask.GrayAt(5, 5).Y, test.ShouldEqual, 0)
	test.That(t, rimage.CountNonZero(mask), test.ShouldEqual, 6)
}

func TestROIThresholdWithoutForeground(t *testing.T) {
	gray := uniform(4, 4, 200)
	mask := ROIThreshold(gray, image.NewGray(gray.Bounds()), logging.NewTestLogger(t))
	test.That(t, rimage.CountNonZero(mask), test.ShouldEqual, 0)
}
