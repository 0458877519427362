package segmentation

import (
	"context"
	"image"
	"testing"

	"go.viam.com/test"

	"github.com/markerseg/markerseg/logging"
)

func TestSegmenterRegistry(t *testing.T) {
	fn := func(ctx context.Context, in *Input) (*image.Gray, error) {
		return image.NewGray(in.Gray.Bounds()), nil
	}
	ctor := func(Config, logging.Logger) (Segmenter, error) { return SegmenterFunc(fn), nil }
	fnName := "x"
	// no constructor
	test.That(t, func() { RegisterSegmenter(fnName, Registration{}) }, test.ShouldPanic)
	// success
	RegisterSegmenter(fnName, Registration{Constructor: ctor})
	// look up
	reg, ok := LookupSegmenter(fnName)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, reg.NeedsMarkers, test.ShouldBeFalse)
	_, ok = LookupSegmenter("z")
	test.That(t, ok, test.ShouldBeFalse)
	// duplicate
	test.That(t, func() { RegisterSegmenter(fnName, Registration{Constructor: ctor}) }, test.ShouldPanic)

	names := RegisteredSegmenters()
	for _, name := range []string{StrategyAutomatic, StrategyHierarchy, StrategyROI, StrategyWatershed, fnName} {
		test.That(t, names, test.ShouldContain, name)
	}
}

func TestConfigValidate(t *testing.T) {
	conf := DefaultConfig()
	test.That(t, conf.Validate("segmentation"), test.ShouldBeNil)

	conf.Strategy = "magic"
	err := conf.Validate("segmentation")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "segmentation.strategy")
	test.That(t, err.Error(), test.ShouldContainSubstring, StrategyWatershed)

	conf = DefaultConfig()
	conf.GradientSigma = -1
	test.That(t, conf.Validate("segmentation"), test.ShouldNotBeNil)
}
