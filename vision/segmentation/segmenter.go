// Package segmentation turns an image and its marker raster into a binary foreground mask.
package segmentation

import (
	"context"
	"image"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/markerseg/markerseg/logging"
	"github.com/markerseg/markerseg/rimage"
)

// Input is everything a Segmenter may look at. Foreground, Background and Elevation are only filled in
// for strategies that ask for them.
type Input struct {
	Image      image.Image
	Gray       *image.Gray
	Elevation  *rimage.ElevationMap
	Foreground *image.Gray
	Background *image.Gray
}

// A Segmenter computes a binary (0/255) mask the size of the input image.
type Segmenter interface {
	Segment(ctx context.Context, in *Input) (*image.Gray, error)
}

// SegmenterFunc adapts a function to the Segmenter interface.
type SegmenterFunc func(ctx context.Context, in *Input) (*image.Gray, error)

// Segment calls f.
func (f SegmenterFunc) Segment(ctx context.Context, in *Input) (*image.Gray, error) {
	return f(ctx, in)
}

// Registration describes how to build a segmentation strategy and what it needs.
type Registration struct {
	Constructor func(conf Config, logger logging.Logger) (Segmenter, error)
	// NeedsMarkers strategies fail with a MissingMarkerError unless both labels are present.
	NeedsMarkers bool
	// NeedsElevation strategies get the elevation map of the image.
	NeedsElevation bool
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Registration{}
)

// RegisterSegmenter registers a strategy under name. Registering the same name twice panics.
func RegisterSegmenter(name string, reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, old := registry[name]; old {
		panic(errors.Errorf("trying to register two segmenters with the same name %q", name))
	}
	if reg.Constructor == nil {
		panic(errors.Errorf("cannot register a nil constructor for segmenter %q", name))
	}
	registry[name] = reg
}

// LookupSegmenter looks up a strategy registration by name.
func LookupSegmenter(name string) (Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[name]
	return reg, ok
}

// RegisteredSegmenters returns the names of every known strategy, sorted.
func RegisteredSegmenters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}
