// Package cli contains the markerseg command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	configFlag = "config"
	debugFlag  = "debug"

	markersFlagOverlay = "overlay"
	markersFlagPoints  = "points"

	segmentFlagStrategy  = "strategy"
	segmentFlagMask      = "mask"
	segmentFlagElevation = "elevation"
	segmentFlagGradient  = "gradient"
	segmentFlagRegions   = "regions"
	segmentFlagLevel     = "level"

	batchFlagJobs = "jobs"
)

func newApp() *cli.App {
	app := &cli.App{
		Name:            "markerseg",
		Usage:           "find markers in images and segment them into foreground and background",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      configFlag,
				Aliases:   []string{"c"},
				Usage:     "load configuration from `FILE` (json or yaml)",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "markers",
				Usage:     "generate foreground and background markers for an image",
				UsageText: "markerseg markers [--overlay FILE] [--points FILE] <image> <raster-out>",
				ArgsUsage: "<image> <raster-out>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      markersFlagOverlay,
						Usage:     "also write the markers drawn over the image to `FILE`",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      markersFlagPoints,
						Usage:     "also write the markers as a points document to `FILE`",
						TakesFile: true,
					},
				},
				Action: MarkersAction,
			},
			{
				Name:      "paint",
				Usage:     "paint a points document into a marker raster",
				ArgsUsage: "<image> <points.json> <raster-out>",
				Action:    PaintAction,
			},
			{
				Name:  "segment",
				Usage: "segment an image using a marker raster",
				Description: `The raster is a marker image of the same size as the input where green pixels mark
the foreground and red pixels mark the background. A points document (.json) is
painted on the fly with the configured radius. The output keeps the mask as its alpha
channel and must be .png or .qoi.`,
				UsageText: "markerseg segment [--strategy NAME] [--mask FILE] [--elevation FILE] [--gradient FILE] " +
					"[--regions FILE [--level L]] <image> <raster> <out>",
				ArgsUsage: "<image> <raster> <out>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  segmentFlagStrategy,
						Usage: "segmentation strategy: watershed, hierarchy, roi or automatic",
					},
					&cli.StringFlag{
						Name:      segmentFlagMask,
						Usage:     "also write the raw binary mask to `FILE`",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      segmentFlagElevation,
						Usage:     "also write the elevation map the strategies flood to `FILE`",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      segmentFlagGradient,
						Usage:     "also write the unsmoothed gradient magnitude to `FILE`",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      segmentFlagRegions,
						Usage:     "also write the superpixels of the merge hierarchy to `FILE`",
						TakesFile: true,
					},
					&cli.Float64Flag{
						Name:  segmentFlagLevel,
						Usage: "elevation level at which --regions cuts the merge hierarchy",
						Value: 0.1,
					},
				},
				Action: SegmentAction,
			},
			{
				Name:  "batch",
				Usage: "segment every image of a directory that has a sibling marker raster",
				Description: `For every image X.ext in the directory with a sibling X.markers.png, writes
X.segmented.png. Images are processed concurrently.`,
				UsageText: "markerseg batch [--strategy NAME] [--jobs N] <dir>",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  segmentFlagStrategy,
						Usage: "segmentation strategy: watershed, hierarchy, roi or automatic",
					},
					&cli.IntFlag{
						Name:        batchFlagJobs,
						Usage:       "number of images to segment at once",
						DefaultText: "number of CPUs",
					},
				},
				Action: BatchAction,
			},
			{
				Name:   "version",
				Usage:  "print version info for this program",
				Action: VersionAction,
			},
		},
	}
	app.OnUsageError = onUsageError
	for _, cmd := range app.Commands {
		cmd.OnUsageError = onUsageError
	}
	return app
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut. Results are written to out as a single JSON envelope.
func NewApp(out, errOut io.Writer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
