package segmentation

import (
	"context"
	"image"

	"github.com/markerseg/markerseg/logging"
	"github.com/markerseg/markerseg/rimage"
)

func init() {
	RegisterSegmenter(StrategyAutomatic, Registration{
		Constructor: func(_ Config, logger logging.Logger) (Segmenter, error) {
			return SegmenterFunc(func(_ context.Context, in *Input) (*image.Gray, error) {
				return AutomaticThreshold(in.Gray, logger), nil
			}), nil
		},
	})
	RegisterSegmenter(StrategyROI, Registration{
		Constructor: func(_ Config, logger logging.Logger) (Segmenter, error) {
			return SegmenterFunc(func(_ context.Context, in *Input) (*image.Gray, error) {
				return ROIThreshold(in.Gray, in.Foreground, logger), nil
			}), nil
		},
		NeedsMarkers: true,
	})
}

// AutomaticThreshold segments without markers: 255 where the gray level is above the Otsu threshold.
func AutomaticThreshold(gray *image.Gray, logger logging.Logger) *image.Gray {
	t := rimage.OtsuThreshold(gray)
	logger.Debugw("automatic threshold", "value", t)
	return rimage.Threshold(gray, t, false)
}

// ROIThreshold applies the Otsu split only inside the bounding box of the foreground marker pixels, outermost
// pixels included, the threshold being computed from that box alone. Everything outside the box is background.
func ROIThreshold(gray, fg *image.Gray, logger logging.Logger) *image.Gray {
	b := gray.Bounds()
	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	box := rimage.BoundingBox(rimage.NonZeroPoints(fg))
	if box.Empty() {
		return mask
	}
	roi := rimage.MakeGray(gray.SubImage(box.Add(b.Min)))
	t := rimage.OtsuThreshold(roi)
	logger.Debugw("roi threshold", "box", box, "value", t)
	local := rimage.Threshold(roi, t, false)
	for y := 0; y < box.Dy(); y++ {
		copy(mask.Pix[mask.PixOffset(box.Min.X, box.Min.Y+y):], local.Pix[y*local.Stride:y*local.Stride+box.Dx()])
	}
	return mask
}
