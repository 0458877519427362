package segmentation

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"github.com/markerseg/markerseg/logging"
	"github.com/markerseg/markerseg/rimage"
	"github.com/markerseg/markerseg/utils"
	"github.com/markerseg/markerseg/vision/markers"
)

// Engine runs one configured strategy. Its contract does not depend on the strategy: same size mask,
// values in {0, 255}, and the same errors for the same bad inputs.
type Engine struct {
	conf      Config
	classify  markers.ClassifyConfig
	reg       Registration
	segmenter Segmenter
	logger    logging.Logger
}

// NewEngine builds the strategy named in conf. Unknown strategies are rejected here rather than at
// segmentation time.
func NewEngine(conf Config, classify markers.ClassifyConfig, logger logging.Logger) (*Engine, error) {
	if err := conf.Validate("segmentation"); err != nil {
		return nil, err
	}
	if err := classify.Validate("classify"); err != nil {
		return nil, err
	}
	reg, _ := LookupSegmenter(conf.Strategy)
	segmenter, err := reg.Constructor(conf, logger.Sublogger(conf.Strategy))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build segmenter %q", conf.Strategy)
	}
	return &Engine{conf: conf, classify: classify, reg: reg, segmenter: segmenter, logger: logger}, nil
}

// Strategy is the name of the strategy the engine runs.
func (e *Engine) Strategy() string {
	return e.conf.Strategy
}

// Segment computes the foreground mask of img guided by raster. raster may be nil for strategies that do
// not need markers. An image and raster of different sizes is a ShapeMismatchError and a marker based
// strategy without both labels on the raster is a MissingMarkerError.
func (e *Engine) Segment(ctx context.Context, img, raster image.Image) (*image.Gray, error) {
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil, errors.New("cannot segment an empty image")
	}
	if raster != nil && raster.Bounds().Size() != size {
		return nil, utils.NewShapeMismatchError(size, raster.Bounds().Size())
	}

	in := &Input{Image: img, Gray: rimage.MakeGray(img)}
	if e.reg.NeedsMarkers {
		if raster == nil {
			return nil, utils.NewMissingMarkerError("foreground", "background")
		}
		in.Foreground, in.Background = markers.Classify(raster, e.classify)
		fgCount, bgCount := rimage.CountNonZero(in.Foreground), rimage.CountNonZero(in.Background)
		e.logger.Debugw("classified markers", "foreground_pixels", fgCount, "background_pixels", bgCount)
		var missing []string
		if fgCount == 0 {
			missing = append(missing, "foreground")
		}
		if bgCount == 0 {
			missing = append(missing, "background")
		}
		if len(missing) > 0 {
			return nil, utils.NewMissingMarkerError(missing...)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.reg.NeedsElevation {
		var err error
		if in.Elevation, err = rimage.ComputeElevationMap(in.Gray, e.conf.GradientSigma); err != nil {
			return nil, utils.NewInternalProcessingError("elevation map", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	mask, err := e.segmenter.Segment(ctx, in)
	if err != nil {
		return nil, err
	}
	if mask.Bounds().Size() != size {
		return nil, utils.NewInternalProcessingError(e.conf.Strategy, utils.NewShapeMismatchError(size, mask.Bounds().Size()))
	}
	e.logger.Debugw("segmented", "strategy", e.conf.Strategy, "foreground_pixels", rimage.CountNonZero(mask))
	return mask, nil
}
