package rimage

import (
	"image"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestReflect101(t *testing.T) {
	test.That(t, reflect101(-1, 5), test.ShouldEqual, 1)
	test.That(t, reflect101(-2, 5), test.ShouldEqual, 2)
	test.That(t, reflect101(5, 5), test.ShouldEqual, 3)
	test.That(t, reflect101(6, 5), test.ShouldEqual, 2)
	test.That(t, reflect101(3, 5), test.ShouldEqual, 3)
	test.That(t, reflect101(-4, 1), test.ShouldEqual, 0)
	test.That(t, reflect101(2, 2), test.ShouldEqual, 0)
}

func TestConvolveGrayFloat64(t *testing.T) {
	t.Run("bad kernel", func(t *testing.T) {
		k := Kernel{[][]float64{{1, 1}, {1, 1}}, 2, 2}
		_, err := ConvolveGrayFloat64(mat.NewDense(3, 3, nil), &k)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "odd")
	})

	t.Run("identity", func(t *testing.T) {
		k := Kernel{[][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}, 3, 3}
		m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
		out, err := ConvolveGrayFloat64(m, &k)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, mat.Equal(out, m), test.ShouldBeTrue)
	})

	t.Run("flat image has no derivative", func(t *testing.T) {
		img := image.NewGray(image.Rect(0, 0, 6, 4))
		for i := range img.Pix {
			img.Pix[i] = 77
		}
		k := GetScharrX()
		out, err := ConvolveGrayFloat64(GrayToDense(img), &k)
		test.That(t, err, test.ShouldBeNil)
		for _, v := range out.RawMatrix().Data {
			test.That(t, v, test.ShouldEqual, 0.)
		}
	})

	t.Run("vertical step", func(t *testing.T) {
		img := image.NewGray(image.Rect(0, 0, 5, 3))
		for y := 0; y < 3; y++ {
			img.Pix[y*img.Stride+3] = 10
			img.Pix[y*img.Stride+4] = 10
		}
		k := GetScharrX()
		out, err := ConvolveGrayFloat64(GrayToDense(img), &k)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.At(1, 0), test.ShouldEqual, 0.)
		test.That(t, out.At(1, 1), test.ShouldEqual, 0.)
		test.That(t, out.At(1, 2), test.ShouldEqual, 160.)
		test.That(t, out.At(1, 3), test.ShouldEqual, 160.)
		// mirrored border repeats the column next to the edge on both sides
		test.That(t, out.At(1, 4), test.ShouldEqual, 0.)
		test.That(t, out.At(0, 2), test.ShouldEqual, 160.)
	})
}

func TestGrayToDense(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.Pix = []uint8{1, 2, 3, 4, 5, 6}
	m := GrayToDense(img)
	r, c := m.Dims()
	test.That(t, r, test.ShouldEqual, 2)
	test.That(t, c, test.ShouldEqual, 3)
	test.That(t, m.At(1, 0), test.ShouldEqual, 4.)
	test.That(t, m.At(0, 2), test.ShouldEqual, 3.)
}
