package rimage

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/markerseg/markerseg/utils"
)

func testPicture() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetNRGBA(3, 3, Red)
	img.SetNRGBA(1, 2, Green)
	return img
}

func sameColors(t *testing.T, a, b image.Image) {
	t.Helper()
	test.That(t, b.Bounds().Size(), test.ShouldResemble, a.Bounds().Size())
	for y := 0; y < a.Bounds().Dy(); y++ {
		for x := 0; x < a.Bounds().Dx(); x++ {
			ca := color.NRGBAModel.Convert(a.At(a.Bounds().Min.X+x, a.Bounds().Min.Y+y))
			cb := color.NRGBAModel.Convert(b.At(b.Bounds().Min.X+x, b.Bounds().Min.Y+y))
			test.That(t, cb, test.ShouldResemble, ca)
		}
	}
}

func TestWriteReadImageFile(t *testing.T) {
	dir := t.TempDir()
	img := testPicture()
	for _, name := range []string{"pic.png", "pic.qoi", "pic.ppm"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			test.That(t, WriteImageToFile(path, img), test.ShouldBeNil)
			read, err := ReadImageFromFile(path)
			test.That(t, err, test.ShouldBeNil)
			sameColors(t, img, read)
		})
	}

	t.Run("gray mask", func(t *testing.T) {
		mask := image.NewGray(image.Rect(0, 0, 3, 3))
		mask.SetGray(1, 1, color.Gray{255})
		path := filepath.Join(dir, "mask.png")
		test.That(t, WriteImageToFile(path, mask), test.ShouldBeNil)
		read, err := ReadImageFromFile(path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, MakeGray(read).Pix, test.ShouldResemble, mask.Pix)
	})

	t.Run("ppm drops alpha", func(t *testing.T) {
		translucent := testPicture()
		translucent.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 0})
		path := filepath.Join(dir, "translucent.ppm")
		test.That(t, WriteImageToFile(path, translucent), test.ShouldBeNil)
		read, err := ReadImageFromFile(path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, color.NRGBAModel.Convert(read.At(0, 0)), test.ShouldResemble, color.NRGBA{10, 20, 30, 255})
		test.That(t, color.NRGBAModel.Convert(read.At(3, 3)), test.ShouldResemble, Red)

		mask := image.NewGray(image.Rect(0, 0, 2, 2))
		mask.SetGray(1, 0, color.Gray{255})
		maskPath := filepath.Join(dir, "mask.ppm")
		test.That(t, WriteImageToFile(maskPath, mask), test.ShouldBeNil)
		read, err = ReadImageFromFile(maskPath)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, MakeGray(read).Pix, test.ShouldResemble, mask.Pix)
	})

	t.Run("jpeg", func(t *testing.T) {
		path := filepath.Join(dir, "pic.jpg")
		test.That(t, WriteImageToFile(path, img), test.ShouldBeNil)
		read, err := ReadImageFromFile(path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, read.Bounds().Size(), test.ShouldResemble, img.Bounds().Size())
	})
}

func TestReadImageFromFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadImageFromFile(filepath.Join(dir, "missing.png"))
	test.That(t, err, test.ShouldNotBeNil)
	var ioErr *utils.IOError
	test.That(t, errors.As(err, &ioErr), test.ShouldBeTrue)

	garbage := filepath.Join(dir, "garbage.png")
	test.That(t, os.WriteFile(garbage, []byte("definitely not an image"), 0o600), test.ShouldBeNil)
	_, err = ReadImageFromFile(garbage)
	test.That(t, err, test.ShouldNotBeNil)
	var decErr *utils.DecodeError
	test.That(t, errors.As(err, &decErr), test.ShouldBeTrue)
	test.That(t, decErr.Path, test.ShouldEqual, garbage)
}
