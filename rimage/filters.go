package rimage

import (
	"image"
	"math"

	"github.com/pkg/errors"

	"github.com/markerseg/markerseg/utils"
)

// Helper function for convolving matrices together, When used with i, dx := range makeRangeArray(n)
// i is the position within the kernel and dx gives the offset within the image.
// if length is even, then the origin is to the right of middle i.e. 4 -> {-2, -1, 0, 1}.
func makeRangeArray(length int) []int {
	if length <= 0 {
		return make([]int, 0)
	}
	rangeArray := make([]int, length)
	var span int
	if length%2 == 0 {
		oddArr := makeRangeArray(length - 1)
		span = length / 2
		rangeArray = append([]int{-span}, oddArr...)
	} else {
		span = (length - 1) / 2
		for i := 0; i < span; i++ {
			rangeArray[length-1-i] = span - i
			rangeArray[i] = -span + i
		}
	}
	return rangeArray
}

// GaussianFunction1D takes in a sigma and returns a gaussian function useful for weighing averages or blurring.
func GaussianFunction1D(sigma float64) func(p float64) float64 {
	if sigma <= 0. {
		return func(p float64) float64 {
			return 1.
		}
	}
	return func(p float64) float64 {
		return math.Exp(-0.5*math.Pow(p, 2)/math.Pow(sigma, 2)) / (sigma * math.Sqrt(2.*math.Pi))
	}
}

// GaussianFunction2D takes in a sigma and returns an isotropic 2D gaussian.
func GaussianFunction2D(sigma float64) func(p1, p2 float64) float64 {
	if sigma <= 0. {
		return func(p1, p2 float64) float64 {
			return 1.
		}
	}
	return func(p1, p2 float64) float64 {
		return math.Exp(-0.5*(p1*p1+p2*p2)/math.Pow(sigma, 2)) / (sigma * sigma * 2. * math.Pi)
	}
}

// GaussianKernel returns a normalized square gaussian Kernel. The size of the kernel is
// determined by sigma so that it covers 3 sigma on each side.
func GaussianKernel(sigma float64) Kernel {
	gaus2D := GaussianFunction2D(sigma)
	k := utils.MaxInt(3, 1+2*int(math.Ceil(3.*sigma)))
	xRange := makeRangeArray(k)
	content := make([][]float64, k)
	total := 0.0
	for j, y := range xRange {
		row := make([]float64, k)
		for i, x := range xRange {
			row[i] = gaus2D(float64(x), float64(y))
			total += row[i]
		}
		content[j] = row
	}
	for _, row := range content {
		for i := range row {
			row[i] /= total
		}
	}
	return Kernel{content, k, k}
}

// BilateralFilterGray smooths a grayscale image while preserving edges: every neighbour within
// diameter/2 is weighed both by its spatial distance (sigmaSpace) and by its intensity
// difference (sigmaColor) to the centre pixel.
func BilateralFilterGray(img *image.Gray, diameter int, sigmaColor, sigmaSpace float64) (*image.Gray, error) {
	if diameter <= 0 {
		return nil, errors.Errorf("bilateral filter diameter must be positive, got %d", diameter)
	}
	if sigmaColor <= 0 || sigmaSpace <= 0 {
		return nil, errors.Errorf("bilateral filter sigmas must be positive, got color=%v space=%v", sigmaColor, sigmaSpace)
	}
	img = toOrigin(img)
	spatialFilter := GaussianFunction1D(sigmaSpace)
	colorFilter := GaussianFunction1D(sigmaColor)
	radius := diameter / 2
	xRange := makeRangeArray(2*radius + 1)

	// both weights only depend on small integers, so they are tabulated once.
	spatial := make([]float64, len(xRange)*len(xRange))
	for j, dy := range xRange {
		for i, dx := range xRange {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			spatial[j*len(xRange)+i] = spatialFilter(float64(dx)) * spatialFilter(float64(dy))
		}
	}
	var colorWeights [256]float64
	for d := range colorWeights {
		colorWeights[d] = colorFilter(float64(d))
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		center := int(img.Pix[y*img.Stride+x])
		val, weight := 0.0, 0.0
		for j, dy := range xRange {
			yy := y + dy
			if yy < 0 || yy >= h {
				continue
			}
			for i, dx := range xRange {
				xx := x + dx
				sw := spatial[j*len(xRange)+i]
				if xx < 0 || xx >= w || sw == 0 {
					continue
				}
				v := int(img.Pix[yy*img.Stride+xx])
				wt := sw * colorWeights[utils.AbsInt(v-center)]
				val += wt * float64(v)
				weight += wt
			}
		}
		out.Pix[y*out.Stride+x] = uint8(math.Round(utils.ClampF64(val/weight, 0, 255)))
	})
	return out, nil
}
