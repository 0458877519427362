package segmentation

import (
	"fmt"
	"strings"

	"github.com/markerseg/markerseg/utils"
)

// Names of the built in strategies.
const (
	StrategyWatershed = "watershed"
	StrategyHierarchy = "hierarchy"
	StrategyROI       = "roi"
	StrategyAutomatic = "automatic"
)

// Config selects and tunes the segmentation strategy.
type Config struct {
	Strategy string `json:"strategy" yaml:"strategy"`
	// GradientSigma is the gaussian smoothing applied to the gradient magnitude; 0 disables it.
	GradientSigma float64 `json:"gradient_sigma" yaml:"gradient_sigma"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{Strategy: StrategyWatershed, GradientSigma: 1}
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if _, ok := LookupSegmenter(conf.Strategy); !ok {
		return utils.NewConfigValidationFieldError(path, "strategy",
			fmt.Sprintf("must be one of %s, got %q", strings.Join(RegisteredSegmenters(), ", "), conf.Strategy))
	}
	if conf.GradientSigma < 0 {
		return utils.NewConfigValidationFieldError(path, "gradient_sigma", "must be >= 0")
	}
	return nil
}
