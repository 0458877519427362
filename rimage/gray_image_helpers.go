package rimage

import (
	"image"
	"image/color"

	"github.com/markerseg/markerseg/utils"
)

// SameImgSize compares two images to see if they're the same size.
func SameImgSize(g1, g2 image.Image) bool {
	return g1.Bounds().Size() == g2.Bounds().Size()
}

// MakeGray converts any image to its luminance (image.Gray) anchored at the origin.
func MakeGray(pic image.Image) *image.Gray {
	if g, ok := pic.(*image.Gray); ok {
		return toOrigin(g)
	}
	b := pic.Bounds()
	result := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	utils.ParallelForEachPixel(b.Size(), func(x, y int) {
		result.Pix[y*result.Stride+x] = color.GrayModel.Convert(pic.At(x+b.Min.X, y+b.Min.Y)).(color.Gray).Y
	})
	return result
}

// NewGrayLike returns a blank grayscale image with the same size as img, anchored at the origin.
func NewGrayLike(img image.Image) *image.Gray {
	return image.NewGray(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
}

// CloneGray returns a deep copy of img anchored at the origin.
func CloneGray(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return out
}

// CountNonZero returns the number of pixels that are not 0.
func CountNonZero(img *image.Gray) int {
	img = toOrigin(img)
	n := 0
	for y := 0; y < img.Rect.Dy(); y++ {
		for _, v := range img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// toOrigin returns img itself when it already starts at (0,0), otherwise a copy that does. All the
// pixel routines in this package index Pix directly and rely on it.
func toOrigin(img *image.Gray) *image.Gray {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	return CloneGray(img)
}
