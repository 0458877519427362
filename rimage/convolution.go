package rimage

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/markerseg/markerseg/utils"
)

// Kernel is a convolution matrix stored row by row.
type Kernel struct {
	Content [][]float64
	Width   int
	Height  int
}

// Size returns the kernel size as a point.
func (k *Kernel) Size() image.Point {
	return image.Point{k.Width, k.Height}
}

// At returns the kernel coefficient at column x and row y.
func (k *Kernel) At(x, y int) float64 {
	return k.Content[y][x]
}

// Anchor returns the centre of the kernel.
func (k *Kernel) Anchor() image.Point {
	return image.Point{k.Width / 2, k.Height / 2}
}

// GetScharrX returns the Kernel corresponding to the Scharr kernel in the x direction.
// It has better rotational symmetry than Sobel at the same size.
func GetScharrX() Kernel {
	return Kernel{[][]float64{
		{-3, 0, 3},
		{-10, 0, 10},
		{-3, 0, 3},
	},
		3,
		3,
	}
}

// GetScharrY returns the Kernel corresponding to the Scharr kernel in the y direction.
func GetScharrY() Kernel {
	return Kernel{[][]float64{
		{-3, -10, -3},
		{0, 0, 0},
		{3, 10, 3},
	},
		3,
		3,
	}
}

// reflect101 maps an out of range index back into [0, n) mirroring around the edge pixel,
// i.e. ...c b | a b c ... | b a...
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// GrayToDense copies a grayscale image into a float matrix indexed (row, column).
func GrayToDense(img *image.Gray) *mat.Dense {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, v := range row {
			data[y*w+x] = float64(v)
		}
	}
	return mat.NewDense(h, w, data)
}

// ConvolveGrayFloat64 implements a float64 image convolution with the Kernel filter.
// Borders are mirrored without repeating the edge pixel and there is no clamping in
// this case. The kernel is applied as a correlation around its anchor.
func ConvolveGrayFloat64(m *mat.Dense, filter *Kernel) (*mat.Dense, error) {
	if filter.Width <= 0 || filter.Height <= 0 || filter.Width%2 == 0 || filter.Height%2 == 0 {
		return nil, errors.Errorf("kernel size must be odd and positive, got %dx%d", filter.Width, filter.Height)
	}
	h, w := m.Dims()
	result := mat.NewDense(h, w, nil)
	src := m.RawMatrix()
	dst := result.RawMatrix()
	anchor := filter.Anchor()

	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		sum := 0.0
		for ky := 0; ky < filter.Height; ky++ {
			yy := reflect101(y+ky-anchor.Y, h)
			for kx := 0; kx < filter.Width; kx++ {
				xx := reflect101(x+kx-anchor.X, w)
				sum += src.Data[yy*src.Stride+xx] * filter.Content[ky][kx]
			}
		}
		dst.Data[y*dst.Stride+x] = sum
	})
	return result, nil
}
