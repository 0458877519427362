package rimage

import (
	"image"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/markerseg/markerseg/utils"
)

// Histogram counts how many pixels take each of the 256 gray levels.
func Histogram(img *image.Gray) [256]int {
	img = toOrigin(img)
	var hist [256]int
	for y := 0; y < img.Rect.Dy(); y++ {
		for _, v := range img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()] {
			hist[v]++
		}
	}
	return hist
}

// OtsuThreshold returns the gray level that maximizes the between class variance of the two
// classes {v <= t} and {v > t}. The lowest maximizing level wins. When the image holds a single
// gray level no split exists and that level is returned, so thresholding at it yields nothing.
func OtsuThreshold(img *image.Gray) uint8 {
	hist := Histogram(img)
	total, sum := 0.0, 0.0
	lowest := -1
	for v, n := range hist {
		if n > 0 && lowest < 0 {
			lowest = v
		}
		total += float64(n)
		sum += float64(v * n)
	}
	if lowest < 0 {
		return 0
	}

	best, bestVar := -1, 0.0
	w0, sum0 := 0.0, 0.0
	for t := 0; t < 255; t++ {
		w0 += float64(hist[t])
		sum0 += float64(t * hist[t])
		w1 := total - w0
		if w0 == 0 || w1 == 0 {
			continue
		}
		mu0 := sum0 / w0
		mu1 := (sum - sum0) / w1
		between := w0 * w1 * (mu0 - mu1) * (mu0 - mu1)
		if best < 0 || between > bestVar {
			best, bestVar = t, between
		}
	}
	if best < 0 {
		return uint8(lowest)
	}
	return uint8(best)
}

// Threshold binarizes img: 255 where v > t, 0 elsewhere. inverse swaps the two classes.
func Threshold(img *image.Gray, t uint8, inverse bool) *image.Gray {
	img = toOrigin(img)
	out := NewGrayLike(img)
	utils.ParallelForEachPixel(img.Rect.Size(), func(x, y int) {
		if (img.Pix[y*img.Stride+x] > t) != inverse {
			out.Pix[y*out.Stride+x] = 255
		}
	})
	return out
}

// AdaptiveMeanThreshold binarizes img against the mean of the blockSize x blockSize neighbourhood of every
// pixel minus c: 255 where v > mean - c. Neighbourhoods are clipped at the image border. inverse swaps the
// two classes.
func AdaptiveMeanThreshold(img *image.Gray, blockSize int, c float64, inverse bool) (*image.Gray, error) {
	if blockSize < 3 || blockSize%2 == 0 {
		return nil, errors.Errorf("adaptive threshold block size must be odd and >= 3, got %d", blockSize)
	}
	img = toOrigin(img)
	w, h := img.Rect.Dx(), img.Rect.Dy()

	// integral[(y+1)*(w+1)+(x+1)] is the sum of all pixels in [0,x]x[0,y].
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(img.Pix[y*img.Stride+x])
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	r := blockSize / 2
	out := image.NewGray(image.Rect(0, 0, w, h))
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		x0, y0 := utils.MaxInt(0, x-r), utils.MaxInt(0, y-r)
		x1, y1 := utils.MinInt(w, x+r+1), utils.MinInt(h, y+r+1)
		sum := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] - integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
		mean := float64(sum) / float64((x1-x0)*(y1-y0))
		if (float64(img.Pix[y*img.Stride+x]) > mean-c) != inverse {
			out.Pix[y*out.Stride+x] = 255
		}
	})
	return out, nil
}

// Invert returns 255 - v for every pixel.
func Invert(img *image.Gray) *image.Gray {
	img = toOrigin(img)
	out := NewGrayLike(img)
	utils.ParallelForEachPixel(img.Rect.Size(), func(x, y int) {
		out.Pix[y*out.Stride+x] = 255 - img.Pix[y*img.Stride+x]
	})
	return out
}

// BorderMean is the mean of the mean values of the four image borders (top row, bottom row, left and
// right columns). It tells whether a binary mask touches the frame mostly with foreground.
func BorderMean(img *image.Gray) (float64, error) {
	img = toOrigin(img)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, errors.New("cannot compute the border mean of an empty image")
	}
	top, bottom := make([]float64, w), make([]float64, w)
	left, right := make([]float64, h), make([]float64, h)
	for x := 0; x < w; x++ {
		top[x] = float64(img.Pix[x])
		bottom[x] = float64(img.Pix[(h-1)*img.Stride+x])
	}
	for y := 0; y < h; y++ {
		left[y] = float64(img.Pix[y*img.Stride])
		right[y] = float64(img.Pix[y*img.Stride+w-1])
	}
	means := make([]float64, 0, 4)
	for _, side := range [][]float64{top, bottom, left, right} {
		m, err := stats.Mean(side)
		if err != nil {
			return 0, err
		}
		means = append(means, m)
	}
	return stats.Mean(means)
}
