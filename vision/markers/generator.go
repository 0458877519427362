package markers

import (
	"context"
	"image"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/markerseg/markerseg/logging"
	"github.com/markerseg/markerseg/rimage"
	"github.com/markerseg/markerseg/utils"
)

// borderMidpoint is the border mean above which the binary mask is assumed to have caught the background.
const borderMidpoint = 127

type generator struct {
	conf   Config
	logger logging.Logger
	size   image.Point
}

// Generate analyzes img and returns foreground and background seed points without any user input.
// The same image and config always give the same markers in the same order.
//
// Foreground seeds are the centroids of the connected components of the cleaned binary mask whose area
// is in [MinArea, MaxArea]. When none qualifies the centroid of the largest component is used instead.
// A mask without any foreground pixel is a MissingMarkerError.
func Generate(ctx context.Context, img image.Image, conf Config, logger logging.Logger) (*Result, error) {
	if err := conf.Validate("markers"); err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, errors.New("cannot generate markers for an empty image")
	}
	g := &generator{conf: conf, logger: logger, size: img.Bounds().Size()}

	mask, err := g.objectMask(img)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seedMask, err := g.core(mask)
	if err != nil {
		return nil, err
	}
	fg := g.foregroundSeeds(seedMask)
	if len(fg) == 0 {
		return nil, utils.NewMissingMarkerError("foreground")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bg, err := g.backgroundSeeds(mask, fg)
	if err != nil {
		return nil, err
	}
	res := NewResult(g.size, append(fg, bg...))
	logger.Debugw("generated markers", "foreground", res.ForegroundCount, "background", res.BackgroundCount)
	return res, nil
}

// objectMask binarizes img so that objects are 255, cleans the mask and flips it when it looks inverted.
func (g *generator) objectMask(img image.Image) (*image.Gray, error) {
	gray := rimage.MakeGray(img)
	if g.conf.BlurDiameter > 0 {
		var err error
		gray, err = rimage.BilateralFilterGray(gray, g.conf.BlurDiameter, g.conf.BlurSigmaColor, g.conf.BlurSigmaSpace)
		if err != nil {
			return nil, err
		}
	}

	var mask *image.Gray
	switch g.conf.ThresholdMethod {
	case ThresholdAdaptive:
		var err error
		mask, err = rimage.AdaptiveMeanThreshold(gray, g.conf.AdaptiveBlockSize, g.conf.AdaptiveC, true)
		if err != nil {
			return nil, err
		}
	default:
		t := rimage.OtsuThreshold(gray)
		g.logger.Debugw("otsu threshold", "value", t)
		mask = rimage.Threshold(gray, t, true)
	}

	mask, err := rimage.MorphOpen(mask, g.conf.KernelSize, g.conf.Iterations)
	if err != nil {
		return nil, err
	}
	mask, err = rimage.MorphClose(mask, g.conf.KernelSize, g.conf.Iterations)
	if err != nil {
		return nil, err
	}

	borderMean, err := rimage.BorderMean(mask)
	if err != nil {
		return nil, err
	}
	if borderMean > borderMidpoint {
		g.logger.Debugw("mask touches the border mostly with foreground, inverting", "border_mean", borderMean)
		mask = rimage.Invert(mask)
	}
	return mask, nil
}

// core keeps only the pixels whose distance to the background is at least CoreFraction of the largest one.
func (g *generator) core(mask *image.Gray) (*image.Gray, error) {
	if g.conf.CoreFraction <= 0 {
		return mask, nil
	}
	dt := rimage.DistanceTransform(mask)
	raw := dt.RawMatrix()
	peak := 0.
	for _, v := range raw.Data {
		if !math.IsInf(v, 1) && v > peak {
			peak = v
		}
	}
	if peak == 0 {
		// nothing or everything is foreground; there is no core to speak of.
		return mask, nil
	}
	cut := g.conf.CoreFraction * peak
	core := rimage.NewGrayLike(mask)
	utils.ParallelForEachPixel(g.size, func(x, y int) {
		if raw.Data[y*raw.Stride+x] >= cut {
			core.Pix[y*core.Stride+x] = 255
		}
	})
	return core, nil
}

// foregroundSeeds emits one marker per qualifying component. A panic during the analysis is logged and
// whatever was collected until then is returned.
func (g *generator) foregroundSeeds(mask *image.Gray) (seeds []Marker) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Errorw("component analysis failed, keeping partial foreground markers",
				"error", utils.NewInternalProcessingError("component analysis", errors.Errorf("%v", r)),
				"kept", len(seeds))
		}
	}()

	_, comps := rimage.ConnectedComponents(mask)
	for _, c := range comps {
		if c.Area < g.conf.MinArea || c.Area > g.conf.MaxArea {
			continue
		}
		seeds = append(seeds, Marker{X: c.Centroid.X, Y: c.Centroid.Y, Label: Foreground})
	}
	if len(seeds) > 0 || len(comps) == 0 {
		return seeds
	}

	// nothing passed the area bounds; relax them and seed the largest component. MaxBy keeps the
	// first maximum, which is the lowest ID.
	largest := lo.MaxBy(comps, func(a, b rimage.ComponentStats) bool { return a.Area > b.Area })
	g.logger.Warnw("no component within area bounds, seeding the largest one",
		"min_area", g.conf.MinArea, "max_area", g.conf.MaxArea, "area", largest.Area, "components", len(comps))
	return []Marker{{X: largest.Centroid.X, Y: largest.Centroid.Y, Label: Foreground}}
}

// backgroundCandidates lists the lattice cell centres row by row and then the four image corners.
func (g *generator) backgroundCandidates() []image.Point {
	w, h := g.size.X, g.size.Y
	stepX := utils.MaxInt(1, w/g.conf.Grid)
	stepY := utils.MaxInt(1, h/g.conf.Grid)
	pts := []image.Point{}
	for y := stepY / 2; y < h; y += stepY {
		for x := stepX / 2; x < w; x += stepX {
			pts = append(pts, image.Point{x, y})
		}
	}
	return append(pts, image.Point{0, 0}, image.Point{w - 1, 0}, image.Point{0, h - 1}, image.Point{w - 1, h - 1})
}

// fallbackCorners are the image corners moved inwards by twice the marker radius.
func (g *generator) fallbackCorners() []image.Point {
	w, h := g.size.X, g.size.Y
	in := 2 * g.conf.Radius
	left, right := utils.ClampInt(in, 0, w-1), utils.ClampInt(w-1-in, 0, w-1)
	top, bottom := utils.ClampInt(in, 0, h-1), utils.ClampInt(h-1-in, 0, h-1)
	return []image.Point{{left, top}, {right, top}, {left, bottom}, {right, bottom}}
}

func (g *generator) farFrom(p image.Point, fg []Marker) bool {
	return lo.EveryBy(fg, func(m Marker) bool {
		return rimage.PointDistance(p, m.Point()) >= g.conf.MinSeparation
	})
}

// backgroundSeeds accepts candidates that are outside the sure foreground area and far enough from every
// foreground seed, up to MaxBackground of them.
func (g *generator) backgroundSeeds(mask *image.Gray, fg []Marker) ([]Marker, error) {
	sure, err := rimage.Dilate(mask, 3, g.conf.BackgroundDilation)
	if err != nil {
		return nil, err
	}

	seeds := []Marker{}
	for _, p := range g.backgroundCandidates() {
		if len(seeds) >= g.conf.MaxBackground {
			break
		}
		if sure.GrayAt(p.X, p.Y).Y != 0 || !g.farFrom(p, fg) {
			continue
		}
		seeds = append(seeds, Marker{X: p.X, Y: p.Y, Label: Background})
	}
	if len(seeds) >= g.conf.MinBackground {
		return seeds, nil
	}

	g.logger.Debugw("too few background markers, trying inset corners", "accepted", len(seeds))
	for _, p := range g.fallbackCorners() {
		if len(seeds) >= g.conf.MaxBackground {
			break
		}
		covers := func(m Marker) bool {
			return rimage.PointDistance(p, m.Point()) <= float64(g.conf.Radius)
		}
		if lo.SomeBy(fg, covers) || lo.SomeBy(seeds, covers) || !g.farFrom(p, fg) {
			continue
		}
		seeds = append(seeds, Marker{X: p.X, Y: p.Y, Label: Background})
	}
	return seeds, nil
}
