package markers

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/markerseg/markerseg/rimage"
)

func TestNewRaster(t *testing.T) {
	raster := NewRaster(image.Point{3, 2})
	test.That(t, raster.Bounds(), test.ShouldResemble, image.Rect(0, 0, 3, 2))
	test.That(t, raster.NRGBAAt(2, 1), test.ShouldResemble, rimage.Black)
}

func TestPaintClassifyRoundTrip(t *testing.T) {
	size := image.Point{60, 40}
	markers := []Marker{
		{X: 15, Y: 20, Label: Foreground},
		{X: 50, Y: 5, Label: Background},
		{X: 0, Y: 39, Label: Background},
	}
	raster, err := Paint(size, markers, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, raster.NRGBAAt(15, 20), test.ShouldResemble, ForegroundColor)
	test.That(t, raster.NRGBAAt(50, 5), test.ShouldResemble, BackgroundColor)

	fg, bg := Classify(raster, DefaultClassifyConfig())
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			p := image.Point{x, y}
			inFG := rimage.PointDistance(p, markers[0].Point()) <= 4
			inBG := rimage.PointDistance(p, markers[1].Point()) <= 4 || rimage.PointDistance(p, markers[2].Point()) <= 4
			test.That(t, fg.GrayAt(x, y).Y == 255, test.ShouldEqual, inFG)
			test.That(t, bg.GrayAt(x, y).Y == 255, test.ShouldEqual, inBG)
		}
	}
}

func TestPaintErrors(t *testing.T) {
	_, err := Paint(image.Point{10, 10}, []Marker{{X: 10, Y: 0, Label: Foreground}}, 2)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "outside")

	_, err = Paint(image.Point{10, 10}, []Marker{{X: 1, Y: 1, Label: Label(5)}}, 2)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Paint(image.Point{10, 10}, nil, -1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestClassifyThresholds(t *testing.T) {
	raster := NewRaster(image.Point{3, 1})
	raster.SetNRGBA(0, 0, color.NRGBA{R: 40, G: 200, A: 255})
	raster.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 50, A: 255})
	raster.SetNRGBA(2, 0, color.NRGBA{R: 255, G: 255, A: 255})
	fg, bg := Classify(raster, DefaultClassifyConfig())
	test.That(t, fg.Pix, test.ShouldResemble, []uint8{255, 0, 255})
	test.That(t, bg.Pix, test.ShouldResemble, []uint8{0, 255, 255})

	// offset rasters are read relative to their origin
	sub := raster.SubImage(image.Rect(1, 0, 3, 1))
	fg, _ = Classify(sub, DefaultClassifyConfig())
	test.That(t, fg.Pix, test.ShouldResemble, []uint8{0, 255})
}

func TestWriteReadRaster(t *testing.T) {
	dir := t.TempDir()
	raster, err := Paint(image.Point{30, 30}, []Marker{{X: 10, Y: 10, Label: Foreground}, {X: 25, Y: 25, Label: Background}}, 3)
	test.That(t, err, test.ShouldBeNil)

	path := filepath.Join(dir, "x.markers.png")
	test.That(t, WriteRaster(path, raster), test.ShouldBeNil)
	read, err := ReadRaster(path)
	test.That(t, err, test.ShouldBeNil)
	fg1, bg1 := Classify(raster, DefaultClassifyConfig())
	fg2, bg2 := Classify(read, DefaultClassifyConfig())
	test.That(t, fg2.Pix, test.ShouldResemble, fg1.Pix)
	test.That(t, bg2.Pix, test.ShouldResemble, bg1.Pix)

	test.That(t, WriteRaster(filepath.Join(dir, "x.jpg"), raster), test.ShouldNotBeNil)
}
