package rimage

import (
	"image"

	"github.com/pkg/errors"

	"github.com/markerseg/markerseg/utils"
)

func checkKernelSize(k int) error {
	if k <= 0 || k%2 == 0 {
		return errors.Errorf("morphological kernel size must be odd and positive, got %d", k)
	}
	return nil
}

// rankFilterSquare applies a min or max filter over a k x k square. Pixels outside the image
// are ignored. The square is separable so rows and columns are filtered one after the other.
func rankFilterSquare(img *image.Gray, k int, pick func(a, b uint8) uint8) *image.Gray {
	img = toOrigin(img)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	r := k / 2
	tmp := image.NewGray(image.Rect(0, 0, w, h))
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		row := img.Pix[y*img.Stride:]
		v := row[x]
		for xx := utils.MaxInt(0, x-r); xx <= utils.MinInt(w-1, x+r); xx++ {
			v = pick(v, row[xx])
		}
		tmp.Pix[y*tmp.Stride+x] = v
	})
	out := image.NewGray(image.Rect(0, 0, w, h))
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		v := tmp.Pix[y*tmp.Stride+x]
		for yy := utils.MaxInt(0, y-r); yy <= utils.MinInt(h-1, y+r); yy++ {
			v = pick(v, tmp.Pix[yy*tmp.Stride+x])
		}
		out.Pix[y*out.Stride+x] = v
	})
	return out
}

func minUint8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxUint8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// ErodeSquare takes in a grayscale image and an odd kernel size, and performs an erosion with a square of
// that size.
func ErodeSquare(img *image.Gray, kernelSize int) (*image.Gray, error) {
	if err := checkKernelSize(kernelSize); err != nil {
		return nil, err
	}
	return rankFilterSquare(img, kernelSize, minUint8), nil
}

// DilateSquare takes in a grayscale image and an odd kernel size, and performs a dilation with a square of
// that size.
func DilateSquare(img *image.Gray, kernelSize int) (*image.Gray, error) {
	if err := checkKernelSize(kernelSize); err != nil {
		return nil, err
	}
	return rankFilterSquare(img, kernelSize, maxUint8), nil
}

func iterate(img *image.Gray, kernelSize, iterations int, ops ...func(*image.Gray, int) (*image.Gray, error)) (*image.Gray, error) {
	if iterations < 0 {
		return nil, errors.Errorf("morphological iterations must be non negative, got %d", iterations)
	}
	if err := checkKernelSize(kernelSize); err != nil {
		return nil, err
	}
	out := toOrigin(img)
	for _, op := range ops {
		for i := 0; i < iterations; i++ {
			var err error
			if out, err = op(out, kernelSize); err != nil {
				return nil, err
			}
		}
	}
	if out == img {
		out = CloneGray(img)
	}
	return out, nil
}

// Erode erodes img `iterations` times with a square kernel.
func Erode(img *image.Gray, kernelSize, iterations int) (*image.Gray, error) {
	return iterate(img, kernelSize, iterations, ErodeSquare)
}

// Dilate dilates img `iterations` times with a square kernel.
func Dilate(img *image.Gray, kernelSize, iterations int) (*image.Gray, error) {
	return iterate(img, kernelSize, iterations, DilateSquare)
}

// MorphOpen erodes `iterations` times then dilates `iterations` times. It removes specks smaller than the kernel.
func MorphOpen(img *image.Gray, kernelSize, iterations int) (*image.Gray, error) {
	return iterate(img, kernelSize, iterations, ErodeSquare, DilateSquare)
}

// MorphClose dilates `iterations` times then erodes `iterations` times. It fills holes smaller than the kernel.
func MorphClose(img *image.Gray, kernelSize, iterations int) (*image.Gray, error) {
	return iterate(img, kernelSize, iterations, DilateSquare, ErodeSquare)
}
