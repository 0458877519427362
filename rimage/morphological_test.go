package rimage

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
)

func dot(w, h int, p image.Point) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	img.SetGray(p.X, p.Y, color.Gray{255})
	return img
}

func TestErodeSquare(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 7, 7))
	for y := 1; y < 6; y++ {
		for x := 1; x < 6; x++ {
			img.SetGray(x, y, color.Gray{255})
		}
	}
	eroded, err := ErodeSquare(img, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, CountNonZero(eroded), test.ShouldEqual, 9)
	test.That(t, eroded.GrayAt(2, 2).Y, test.ShouldEqual, uint8(255))
	test.That(t, eroded.GrayAt(1, 1).Y, test.ShouldEqual, uint8(0))

	// out of image pixels are ignored so a full image stays full
	full := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range full.Pix {
		full.Pix[i] = 255
	}
	eroded, err = ErodeSquare(full, 5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, CountNonZero(eroded), test.ShouldEqual, 16)

	_, err = ErodeSquare(img, 4)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDilateSquare(t *testing.T) {
	dilated, err := DilateSquare(dot(7, 7, image.Point{3, 3}), 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, CountNonZero(dilated), test.ShouldEqual, 9)
	test.That(t, dilated.GrayAt(2, 4).Y, test.ShouldEqual, uint8(255))

	dilated, err = DilateSquare(dot(7, 7, image.Point{0, 0}), 5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, CountNonZero(dilated), test.ShouldEqual, 9)

	dilated, err = Dilate(dot(9, 9, image.Point{4, 4}), 3, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, CountNonZero(dilated), test.ShouldEqual, 25)

	eroded, err := Erode(dilated, 3, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, CountNonZero(eroded), test.ShouldEqual, 1)
}

func TestMorphOpenClose(t *testing.T) {
	t.Run("open removes specks", func(t *testing.T) {
		img := dot(9, 9, image.Point{4, 4})
		opened, err := MorphOpen(img, 3, 1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, CountNonZero(opened), test.ShouldEqual, 0)
	})

	t.Run("close fills holes", func(t *testing.T) {
		img := image.NewGray(image.Rect(0, 0, 9, 9))
		for y := 2; y <= 6; y++ {
			for x := 2; x <= 6; x++ {
				img.SetGray(x, y, color.Gray{255})
			}
		}
		img.SetGray(4, 4, color.Gray{0})
		closed, err := MorphClose(img, 3, 1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, closed.GrayAt(4, 4).Y, test.ShouldEqual, uint8(255))
		test.That(t, CountNonZero(closed), test.ShouldEqual, 25)
	})

	t.Run("zero iterations copies", func(t *testing.T) {
		img := dot(5, 5, image.Point{1, 1})
		out, err := MorphOpen(img, 3, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Pix, test.ShouldResemble, img.Pix)
		out.Pix[0] = 1
		test.That(t, img.Pix[0], test.ShouldEqual, uint8(0))
	})

	t.Run("bad arguments", func(t *testing.T) {
		img := dot(5, 5, image.Point{1, 1})
		_, err := MorphClose(img, 3, -1)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = MorphClose(img, 0, 1)
		test.That(t, err, test.ShouldNotBeNil)
	})
}
