package markers

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/markerseg/markerseg/rimage"
	"github.com/markerseg/markerseg/utils"
)

// Colors bound to each label on a marker raster.
var (
	ForegroundColor = rimage.Green
	BackgroundColor = rimage.Red
)

// Color returns the raster color of the label.
func (l Label) Color() color.NRGBA {
	if l == Background {
		return BackgroundColor
	}
	return ForegroundColor
}

// NewRaster returns an opaque black canvas of the given size.
func NewRaster(size image.Point) *image.NRGBA {
	raster := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	for i := 3; i < len(raster.Pix); i += 4 {
		raster.Pix[i] = 255
	}
	return raster
}

// Paint draws every marker as a filled disc of the given radius in its label color, in order, on a
// black canvas of the given size. Markers outside the canvas are rejected.
func Paint(size image.Point, markers []Marker, radius int) (*image.NRGBA, error) {
	if radius < 0 {
		return nil, errors.Errorf("marker radius must be >= 0, got %d", radius)
	}
	bounds := image.Rectangle{Max: size}
	raster := NewRaster(size)
	for i, m := range markers {
		if !m.Point().In(bounds) {
			return nil, errors.Errorf("marker %d at %v is outside the %dx%d image", i, m.Point(), size.X, size.Y)
		}
		if m.Label != Foreground && m.Label != Background {
			return nil, errors.Errorf("marker %d has unknown label %d", i, int(m.Label))
		}
		rimage.FillDisc(raster, m.Point(), radius, m.Label.Color())
	}
	return raster, nil
}

// Classify reads a marker raster back into a foreground mask (green channel above its threshold) and a
// background mask (red channel above its threshold). A pixel may be in both.
func Classify(raster image.Image, conf ClassifyConfig) (fg, bg *image.Gray) {
	b := raster.Bounds()
	fg = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	bg = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	utils.ParallelForEachPixel(b.Size(), func(x, y int) {
		c := color.NRGBAModel.Convert(raster.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		if int(c.G) > conf.GreenThreshold {
			fg.Pix[y*fg.Stride+x] = 255
		}
		if int(c.R) > conf.RedThreshold {
			bg.Pix[y*bg.Stride+x] = 255
		}
	})
	return fg, bg
}

// ReadRaster loads a marker raster written by WriteRaster (or painted by hand).
func ReadRaster(path string) (image.Image, error) {
	return rimage.ReadImageFromFile(path)
}

// WriteRaster persists a marker raster. Use a lossless format such as png: the colors carry the labels.
func WriteRaster(path string, raster image.Image) error {
	if utils.MimeTypeFromPath(path) == utils.MimeTypeJPEG {
		return errors.Errorf("refusing to write marker raster %q with lossy encoding", path)
	}
	return rimage.WriteImageToFile(path, raster)
}
