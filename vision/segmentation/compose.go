package segmentation

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/markerseg/markerseg/rimage"
	"github.com/markerseg/markerseg/utils"
)

// Compose returns img with mask as its alpha channel. Colors are copied unchanged (non premultiplied) and
// the alpha of every pixel is exactly the mask value. img and mask must have the same size.
func Compose(img image.Image, mask *image.Gray) (*image.NRGBA, error) {
	b, mb := img.Bounds(), mask.Bounds()
	if !rimage.SameImgSize(img, mask) {
		return nil, utils.NewShapeMismatchError(b.Size(), mb.Size())
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	utils.ParallelForEachPixel(b.Size(), func(x, y int) {
		c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		c.A = mask.Pix[mask.PixOffset(mb.Min.X+x, mb.Min.Y+y)]
		out.SetNRGBA(x, y, c)
	})
	return out, nil
}

// CheckCompositePath fails when the format picked by the extension of path cannot store the alpha
// channel of a composite.
func CheckCompositePath(path string) error {
	if !utils.MimeTypeHasAlpha(utils.MimeTypeFromPath(path)) {
		return errors.Errorf("refusing to write composite %q in a format without alpha, use .png or .qoi", path)
	}
	return nil
}

// CheckMaskPath fails when the format picked by the extension of path would not keep a mask binary.
func CheckMaskPath(path string) error {
	if utils.MimeTypeFromPath(path) == utils.MimeTypeJPEG {
		return errors.Errorf("refusing to write mask %q with lossy encoding", path)
	}
	return nil
}

// WriteComposite writes a composite returned by Compose to path.
func WriteComposite(path string, composite *image.NRGBA) error {
	if err := CheckCompositePath(path); err != nil {
		return err
	}
	return rimage.WriteImageToFile(path, composite)
}
