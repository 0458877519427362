package rimage

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vec2D represents the gradient of an image at a point.
// The gradient has both a magnitude and direction.
// Magnitude has values (0, infinity) and direction is [0, 2pi).
type Vec2D struct {
	magnitude float64
	direction float64
}

// Magnitude returns the length of the gradient.
func (g Vec2D) Magnitude() float64 {
	return g.magnitude
}

// Direction returns the angle of the gradient in [0, 2pi).
func (g Vec2D) Direction() float64 {
	return g.direction
}

// VectorField2D stores all the gradient vectors of the image
// allowing one to retrieve the gradient for any given (x,y) point.
type VectorField2D struct {
	width  int
	height int

	data         []Vec2D
	maxMagnitude float64
}

func (vf *VectorField2D) kxy(x, y int) int {
	return (y * vf.width) + x
}

// Width of the field.
func (vf *VectorField2D) Width() int {
	return vf.width
}

// Height of the field.
func (vf *VectorField2D) Height() int {
	return vf.height
}

// GetVec2D returns the gradient at (x, y).
func (vf *VectorField2D) GetVec2D(x, y int) Vec2D {
	return vf.data[vf.kxy(x, y)]
}

// MagnitudeField returns all the magnitudes of the gradient in the image as a mat.Dense.
func (vf *VectorField2D) MagnitudeField() *mat.Dense {
	mag := make([]float64, 0, vf.height*vf.width)
	for _, v := range vf.data {
		mag = append(mag, v.Magnitude())
	}
	return mat.NewDense(vf.height, vf.width, mag)
}

// VectorField2DFromDense builds a field from the x and y derivatives of an image.
func VectorField2DFromDense(gx, gy *mat.Dense) (*VectorField2D, error) {
	xh, xw := gx.Dims()
	yh, yw := gy.Dims()
	if xw != yw || xh != yh {
		return nil, errors.Errorf("cannot make VectorField2D from two matrices of different sizes (%v,%v), (%v,%v)", xw, xh, yw, yh)
	}
	vf := &VectorField2D{width: xw, height: xh, data: make([]Vec2D, 0, xw*xh)}
	for y := 0; y < xh; y++ {
		for x := 0; x < xw; x++ {
			mag, dir := getMagnitudeAndDirection(gx.At(y, x), gy.At(y, x)) // in mat.Dense, indexing is (row, column)
			vf.data = append(vf.data, Vec2D{mag, dir})
			vf.maxMagnitude = math.Max(mag, vf.maxMagnitude)
		}
	}
	return vf, nil
}

// ScharrGradient computes the luminance gradient of a grayscale image with the Scharr operator.
func ScharrGradient(img *image.Gray) (*VectorField2D, error) {
	img = toOrigin(img)
	if img.Rect.Empty() {
		return nil, errors.New("cannot compute the gradient of an empty image")
	}
	m := GrayToDense(img)
	kx, ky := GetScharrX(), GetScharrY()
	gx, err := ConvolveGrayFloat64(m, &kx)
	if err != nil {
		return nil, err
	}
	gy, err := ConvolveGrayFloat64(m, &ky)
	if err != nil {
		return nil, err
	}
	return VectorField2DFromDense(gx, gy)
}

// MagnitudePicture creates a picture of the magnitude that the gradients point to in the original image.
func (vf *VectorField2D) MagnitudePicture() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, vf.Width(), vf.Height()))
	if vf.maxMagnitude == 0 {
		return img
	}
	for y := 0; y < vf.Height(); y++ {
		for x := 0; x < vf.Width(); x++ {
			val := uint8((vf.GetVec2D(x, y).Magnitude() / vf.maxMagnitude) * 255)
			img.SetGray(x, y, color.Gray{val})
		}
	}
	return img
}

func getMagnitudeAndDirection(x, y float64) (float64, float64) {
	mag := math.Sqrt(x*x + y*y)
	// get direction - make angle so that it is between [0, 2pi] rather than [-pi, pi]
	dir := math.Atan2(y, x)
	if dir < 0. {
		dir += 2. * math.Pi
	}
	return mag, dir
}

// ElevationMap is the normalized gradient magnitude of an image's luminance. Values are in
// [0, 1] and it is only ever read once built.
type ElevationMap struct {
	width, height int
	data          *mat.Dense
}

// ComputeElevationMap derives the elevation map of a grayscale image: Scharr gradient
// magnitude, smoothed by a gaussian of the given sigma (0 disables smoothing) and
// normalized to [0, 1]. A flat image yields an all zero map.
func ComputeElevationMap(img *image.Gray, sigma float64) (*ElevationMap, error) {
	vf, err := ScharrGradient(img)
	if err != nil {
		return nil, err
	}
	mag := vf.MagnitudeField()
	if sigma > 0 {
		gauss := GaussianKernel(sigma)
		mag, err = ConvolveGrayFloat64(mag, &gauss)
		if err != nil {
			return nil, err
		}
	}
	raw := mag.RawMatrix().Data
	peak := floats.Max(raw)
	for i, v := range raw {
		switch {
		case v <= 0:
			// the gaussian can leave tiny negative rounding residue.
			raw[i] = 0
		case peak > 0:
			raw[i] = v / peak
		}
	}
	return &ElevationMap{width: vf.Width(), height: vf.Height(), data: mag}, nil
}

// NewElevationMapFromDense wraps an existing matrix (rows = height) as an elevation map.
func NewElevationMapFromDense(m *mat.Dense) *ElevationMap {
	h, w := m.Dims()
	return &ElevationMap{width: w, height: h, data: m}
}

// Width of the map.
func (em *ElevationMap) Width() int {
	return em.width
}

// Height of the map.
func (em *ElevationMap) Height() int {
	return em.height
}

// At returns the elevation at (x, y).
func (em *ElevationMap) At(x, y int) float64 {
	return em.data.At(y, x)
}

// Values returns the row major elevation values. Callers must not modify them.
func (em *ElevationMap) Values() []float64 {
	raw := em.data.RawMatrix()
	if raw.Stride == em.width {
		return raw.Data[:em.width*em.height]
	}
	out := make([]float64, 0, em.width*em.height)
	for y := 0; y < em.height; y++ {
		out = append(out, raw.Data[y*raw.Stride:y*raw.Stride+em.width]...)
	}
	return out
}

// Picture renders the map as a grayscale image, for debugging.
func (em *ElevationMap) Picture() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, em.width, em.height))
	for y := 0; y < em.height; y++ {
		for x := 0; x < em.width; x++ {
			img.SetGray(x, y, color.Gray{uint8(math.Round(em.At(x, y) * 255))})
		}
	}
	return img
}
