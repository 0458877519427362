package rimage

import (
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	// register bmp, tiff and webp.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	goutils "go.viam.com/utils"

	"github.com/markerseg/markerseg/utils"
)

// ReadImageFromFile extracts the image from the file at path, applying any EXIF orientation.
// A missing or unreadable file is an IOError; an unknown or corrupt encoding is a DecodeError.
func ReadImageFromFile(path string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewIOError(path, err)
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, utils.NewDecodeError(path, err)
	}
	if img.Bounds().Empty() {
		return nil, utils.NewDecodeError(path, errors.New("image has no pixels"))
	}
	return img, nil
}

// EncodeImage writes img to w in the format given by mimeType. Unknown types are written as png.
// Formats without alpha (see utils.MimeTypeHasAlpha) drop it.
func EncodeImage(w io.Writer, img image.Image, mimeType string) error {
	switch mimeType {
	case utils.MimeTypeQOI:
		return qoi.Encode(w, img)
	case utils.MimeTypePPM:
		return ppm.Encode(w, opaqueRGBA(img))
	case utils.MimeTypeJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(95))
	default:
		return imaging.Encode(w, img, imaging.PNG)
	}
}

// opaqueRGBA copies the colors of img, read non premultiplied, into a fully opaque *image.RGBA.
func opaqueRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	utils.ParallelForEachPixel(b.Size(), func(x, y int) {
		c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		out.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 255})
	})
	return out
}

// WriteImageToFile writes the given image to a file at the supplied path, choosing the encoding
// from the extension. The file is replaced atomically so readers never see a partial artifact.
func WriteImageToFile(path string, img image.Image) error {
	return utils.AtomicWriteFile(path, func(w io.Writer) error {
		return EncodeImage(w, img, utils.MimeTypeFromPath(path))
	})
}
