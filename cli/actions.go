package cli

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/markerseg/markerseg/rimage"
	"github.com/markerseg/markerseg/utils"
	"github.com/markerseg/markerseg/vision/markers"
	"github.com/markerseg/markerseg/vision/segmentation"
)

const (
	markersSuffix   = ".markers.png"
	segmentedSuffix = ".segmented.png"
)

// imageExtensions are the inputs batch looks at.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp", ".qoi", ".ppm"}

// MarkersAction is the corresponding Action for 'markers'.
func MarkersAction(c *cli.Context) error {
	return runAction(c, (*segClient).markersAction)
}

func (c *segClient) markersAction(cCtx *cli.Context) (interface{}, error) {
	args, err := positionalArgs(cCtx, 2)
	if err != nil {
		return nil, err
	}
	imagePath, rasterPath := args[0], args[1]

	img, err := rimage.ReadImageFromFile(imagePath)
	if err != nil {
		return nil, err
	}
	res, err := markers.Generate(cCtx.Context, img, c.conf.Markers, c.logger.Sublogger("markers"))
	if err != nil {
		return nil, err
	}
	raster, err := markers.Paint(res.ImageSize, res.Markers, c.conf.Markers.Radius)
	if err != nil {
		return nil, err
	}
	if err := markers.WriteRaster(rasterPath, raster); err != nil {
		return nil, err
	}
	if overlayPath := cCtx.String(markersFlagOverlay); overlayPath != "" {
		if err := rimage.WriteImageToFile(overlayPath, markers.DrawOverlay(img, res.Markers, c.conf.Markers.Radius)); err != nil {
			return nil, err
		}
	}
	if pointsPath := cCtx.String(markersFlagPoints); pointsPath != "" {
		if err := markers.WritePoints(pointsPath, res); err != nil {
			return nil, err
		}
	}
	c.logger.Infow("wrote markers", "raster", rasterPath,
		"foreground", res.ForegroundCount, "background", res.BackgroundCount)
	return res, nil
}

type paintOutput struct {
	Raster     string `json:"raster"`
	Object     int    `json:"object"`
	Background int    `json:"background"`
}

// PaintAction is the corresponding Action for 'paint'.
func PaintAction(c *cli.Context) error {
	return runAction(c, (*segClient).paintAction)
}

func (c *segClient) paintAction(cCtx *cli.Context) (interface{}, error) {
	args, err := positionalArgs(cCtx, 3)
	if err != nil {
		return nil, err
	}
	imagePath, pointsPath, rasterPath := args[0], args[1], args[2]

	img, err := rimage.ReadImageFromFile(imagePath)
	if err != nil {
		return nil, err
	}
	res, raster, err := c.paintPoints(pointsPath, img.Bounds().Size())
	if err != nil {
		return nil, err
	}
	if err := markers.WriteRaster(rasterPath, raster); err != nil {
		return nil, err
	}
	return paintOutput{Raster: rasterPath, Object: res.ForegroundCount, Background: res.BackgroundCount}, nil
}

// paintPoints reads a points document and paints it on a raster of the given size. A document that
// records a different image size does not belong to the image.
func (c *segClient) paintPoints(pointsPath string, size image.Point) (*markers.Result, *image.NRGBA, error) {
	res, err := markers.ReadPoints(pointsPath)
	if err != nil {
		return nil, nil, err
	}
	if res.ImageSize != (image.Point{}) && res.ImageSize != size {
		return nil, nil, utils.NewShapeMismatchError(size, res.ImageSize)
	}
	raster, err := markers.Paint(size, res.Markers, c.conf.Markers.Radius)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot paint %q", pointsPath)
	}
	return res, raster, nil
}

type segmentOutput struct {
	Image            string `json:"image"`
	Output           string `json:"output"`
	Mask             string `json:"mask,omitempty"`
	Elevation        string `json:"elevation,omitempty"`
	Gradient         string `json:"gradient,omitempty"`
	Regions          string `json:"regions,omitempty"`
	Strategy         string `json:"strategy"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	ForegroundPixels int    `json:"foreground_pixels"`
}

// SegmentAction is the corresponding Action for 'segment'.
func SegmentAction(c *cli.Context) error {
	return runAction(c, (*segClient).segmentAction)
}

func (c *segClient) segmentAction(cCtx *cli.Context) (interface{}, error) {
	args, err := positionalArgs(cCtx, 3)
	if err != nil {
		return nil, err
	}
	imagePath, rasterPath, outPath := args[0], args[1], args[2]
	out := segmentOutput{
		Image:     imagePath,
		Output:    outPath,
		Mask:      cCtx.String(segmentFlagMask),
		Elevation: cCtx.String(segmentFlagElevation),
		Gradient:  cCtx.String(segmentFlagGradient),
		Regions:   cCtx.String(segmentFlagRegions),
	}
	if err := segmentation.CheckCompositePath(outPath); err != nil {
		return nil, err
	}
	if out.Mask != "" {
		if err := segmentation.CheckMaskPath(out.Mask); err != nil {
			return nil, err
		}
	}

	engine, err := c.newEngine(cCtx)
	if err != nil {
		return nil, err
	}
	res, err := c.segmentFiles(cCtx.Context, engine, imagePath, rasterPath)
	if err != nil {
		return nil, err
	}

	// nothing is written until the whole result exists
	outputs := []artifact{{path: outPath, img: res.composite}}
	if out.Mask != "" {
		outputs = append(outputs, artifact{path: out.Mask, img: res.mask})
	}
	if out.Elevation != "" || out.Gradient != "" || out.Regions != "" {
		level := cCtx.Float64(segmentFlagLevel)
		diag, err := segmentation.ComputeDiagnostics(cCtx.Context, res.img, c.conf.Segmentation, level)
		if err != nil {
			return nil, err
		}
		for _, a := range []artifact{
			{path: out.Elevation, img: diag.Elevation},
			{path: out.Gradient, img: diag.Gradient},
			{path: out.Regions, img: diag.Regions},
		} {
			if a.path != "" {
				outputs = append(outputs, a)
			}
		}
	}
	if err := writeArtifacts(outputs...); err != nil {
		return nil, err
	}

	size := res.mask.Bounds().Size()
	out.Strategy = engine.Strategy()
	out.Width, out.Height = size.X, size.Y
	out.ForegroundPixels = rimage.CountNonZero(res.mask)
	return out, nil
}

func (c *segClient) newEngine(cCtx *cli.Context) (*segmentation.Engine, error) {
	conf := c.conf.Segmentation
	if strategy := cCtx.String(segmentFlagStrategy); strategy != "" {
		conf.Strategy = strategy
	}
	return segmentation.NewEngine(conf, c.conf.Classify, c.logger.Sublogger("segmentation"))
}

// segmented is the outcome of segmenting one image.
type segmented struct {
	img       image.Image
	mask      *image.Gray
	composite *image.NRGBA
}

// segmentFiles runs engine over the image at imagePath with the markers at rasterPath, which is either a
// marker raster or a points document.
func (c *segClient) segmentFiles(
	ctx context.Context,
	engine *segmentation.Engine,
	imagePath, rasterPath string,
) (*segmented, error) {
	img, err := rimage.ReadImageFromFile(imagePath)
	if err != nil {
		return nil, err
	}

	var raster image.Image
	if strings.EqualFold(filepath.Ext(rasterPath), ".json") {
		if _, raster, err = c.paintPoints(rasterPath, img.Bounds().Size()); err != nil {
			return nil, err
		}
	} else if raster, err = markers.ReadRaster(rasterPath); err != nil {
		return nil, err
	}

	mask, err := engine.Segment(ctx, img, raster)
	if err != nil {
		return nil, err
	}
	composite, err := segmentation.Compose(img, mask)
	if err != nil {
		return nil, err
	}
	return &segmented{img: img, mask: mask, composite: composite}, nil
}

type batchItem struct {
	Image            string `json:"image"`
	Output           string `json:"output"`
	ForegroundPixels int    `json:"foreground_pixels"`
}

type batchOutput struct {
	Strategy  string      `json:"strategy"`
	Processed []batchItem `json:"processed"`
	Skipped   []string    `json:"skipped"`
}

// batchJob is one image of a batch directory with its sibling raster.
type batchJob struct {
	image  string
	raster string
	output string
}

// BatchAction is the corresponding Action for 'batch'.
func BatchAction(c *cli.Context) error {
	return runAction(c, (*segClient).batchAction)
}

func (c *segClient) batchAction(cCtx *cli.Context) (interface{}, error) {
	args, err := positionalArgs(cCtx, 1)
	if err != nil {
		return nil, err
	}
	jobs, skipped, err := findBatchJobs(args[0])
	if err != nil {
		return nil, err
	}
	// validate the strategy once before fanning out
	engine, err := c.newEngine(cCtx)
	if err != nil {
		return nil, err
	}

	limit := cCtx.Int(batchFlagJobs)
	if limit <= 0 {
		limit = utils.ParallelFactor
	}
	c.logger.Infow("starting batch", "dir", args[0], "images", len(jobs), "skipped", len(skipped), "jobs", limit)

	items := make([]batchItem, len(jobs))
	errs := make([]error, len(jobs))
	g, ctx := errgroup.WithContext(cCtx.Context)
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			// every image gets its own engine so no state is shared between them
			jobEngine, err := c.newEngine(cCtx)
			if err != nil {
				errs[i] = err
				return nil
			}
			res, err := c.segmentFiles(ctx, jobEngine, job.image, job.raster)
			if err == nil {
				err = segmentation.WriteComposite(job.output, res.composite)
			}
			if err != nil {
				c.logger.Warnw("cannot segment image", "image", job.image, "error", err)
				errs[i] = errors.Wrapf(err, "%s", filepath.Base(job.image))
				return nil
			}
			items[i] = batchItem{Image: job.image, Output: job.output, ForegroundPixels: rimage.CountNonZero(res.mask)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}
	return batchOutput{Strategy: engine.Strategy(), Processed: items, Skipped: skipped}, nil
}

// findBatchJobs lists the images of dir that have a sibling marker raster. Images without one are
// returned as skipped. Rasters and previous outputs are never treated as inputs.
func findBatchJobs(dir string) ([]batchJob, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, utils.NewIOError(dir, err)
	}
	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, markersSuffix) || strings.HasSuffix(name, segmentedSuffix) {
			return "", false
		}
		return name, lo.Contains(imageExtensions, strings.ToLower(filepath.Ext(name)))
	})

	var jobs []batchJob
	skipped := []string{}
	for _, name := range names {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		raster := filepath.Join(dir, base+markersSuffix)
		if _, err := os.Stat(raster); err != nil {
			skipped = append(skipped, filepath.Join(dir, name))
			continue
		}
		jobs = append(jobs, batchJob{
			image:  filepath.Join(dir, name),
			raster: raster,
			output: filepath.Join(dir, base+segmentedSuffix),
		})
	}
	return jobs, skipped, nil
}
