package segmentation

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/markerseg/markerseg/rimage"
	"github.com/markerseg/markerseg/utils"
)

func TestCompose(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(2, 1, color.NRGBA{200, 100, 50, 255})
	mask := image.NewGray(image.Rect(0, 0, 3, 2))
	mask.SetGray(2, 1, color.Gray{255})

	out, err := Compose(img, mask)
	test.That(t, err, test.ShouldBeNil)
	// colors survive even where the mask hides them
	test.That(t, out.NRGBAAt(0, 0), test.ShouldResemble, color.NRGBA{10, 20, 30, 0})
	test.That(t, out.NRGBAAt(2, 1), test.ShouldResemble, color.NRGBA{200, 100, 50, 255})
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			test.That(t, out.NRGBAAt(x, y).A, test.ShouldEqual, mask.GrayAt(x, y).Y)
		}
	}

	t.Run("offset source", func(t *testing.T) {
		sub := img.SubImage(image.Rect(1, 0, 3, 2))
		out, err := Compose(sub, mask.SubImage(image.Rect(1, 0, 3, 2)).(*image.Gray))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Bounds(), test.ShouldResemble, image.Rect(0, 0, 2, 2))
		test.That(t, out.NRGBAAt(1, 1), test.ShouldResemble, color.NRGBA{200, 100, 50, 255})
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := Compose(img, image.NewGray(image.Rect(0, 0, 2, 2)))
		test.That(t, utils.IsShapeMismatch(err), test.ShouldBeTrue)
	})
}

func TestWriteComposite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = 180
	}
	mask := image.NewGray(image.Rect(0, 0, 4, 3))
	mask.SetGray(1, 1, color.Gray{255})
	composite, err := Compose(img, mask)
	test.That(t, err, test.ShouldBeNil)
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.qoi"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			test.That(t, CheckCompositePath(path), test.ShouldBeNil)
			test.That(t, WriteComposite(path, composite), test.ShouldBeNil)
			read, err := rimage.ReadImageFromFile(path)
			test.That(t, err, test.ShouldBeNil)
			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					_, _, _, a := read.At(x, y).RGBA()
					test.That(t, uint8(a>>8), test.ShouldEqual, mask.GrayAt(x, y).Y)
				}
			}
		})
	}

	for _, name := range []string{"out.jpg", "out.JPEG", "out.ppm"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			err := WriteComposite(path, composite)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, "without alpha")
			_, err = os.Stat(path)
			test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
		})
	}
}

func TestCheckMaskPath(t *testing.T) {
	test.That(t, CheckMaskPath("mask.png"), test.ShouldBeNil)
	test.That(t, CheckMaskPath("mask.ppm"), test.ShouldBeNil)
	test.That(t, CheckMaskPath("mask.jpg"), test.ShouldNotBeNil)
}
