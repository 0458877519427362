package markers

import (
	"fmt"

	"github.com/markerseg/markerseg/utils"
)

// The binarization methods the generator knows.
const (
	ThresholdOtsu     = "otsu"
	ThresholdAdaptive = "adaptive"
)

// Config holds the tunables of marker generation and painting.
type Config struct {
	// Radius of the painted marker discs.
	Radius int `json:"radius" yaml:"radius"`
	// Connected components whose area falls in [MinArea, MaxArea] become foreground seeds.
	MinArea int `json:"min_area" yaml:"min_area"`
	MaxArea int `json:"max_area" yaml:"max_area"`
	// Background candidates are the centres of a Grid x Grid lattice.
	Grid               int     `json:"grid" yaml:"grid"`
	MinSeparation      float64 `json:"min_separation" yaml:"min_separation"`
	MaxBackground      int     `json:"max_background" yaml:"max_background"`
	MinBackground      int     `json:"min_background" yaml:"min_background"`
	BackgroundDilation int     `json:"background_dilation" yaml:"background_dilation"`

	ThresholdMethod   string  `json:"threshold_method" yaml:"threshold_method"`
	AdaptiveBlockSize int     `json:"adaptive_block_size" yaml:"adaptive_block_size"`
	AdaptiveC         float64 `json:"adaptive_c" yaml:"adaptive_c"`

	KernelSize int `json:"kernel_size" yaml:"kernel_size"`
	Iterations int `json:"iterations" yaml:"iterations"`

	// BlurDiameter 0 disables the bilateral smoothing.
	BlurDiameter   int     `json:"blur_diameter" yaml:"blur_diameter"`
	BlurSigmaColor float64 `json:"blur_sigma_color" yaml:"blur_sigma_color"`
	BlurSigmaSpace float64 `json:"blur_sigma_space" yaml:"blur_sigma_space"`

	// CoreFraction in (0, 1) seeds only the pixels deep inside objects; 0 disables it.
	CoreFraction float64 `json:"core_fraction" yaml:"core_fraction"`
}

// DefaultConfig returns the generation settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Radius:             10,
		MinArea:            500,
		MaxArea:            50000,
		Grid:               8,
		MinSeparation:      100,
		MaxBackground:      8,
		MinBackground:      4,
		BackgroundDilation: 10,
		ThresholdMethod:    ThresholdOtsu,
		AdaptiveBlockSize:  11,
		AdaptiveC:          2,
		KernelSize:         3,
		Iterations:         2,
		BlurDiameter:       9,
		BlurSigmaColor:     75,
		BlurSigmaSpace:     75,
	}
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	fieldErr := func(field, reason string) error {
		return utils.NewConfigValidationFieldError(path, field, reason)
	}
	switch {
	case conf.Radius <= 0:
		return fieldErr("radius", "must be > 0")
	case conf.MinArea <= 0:
		return fieldErr("min_area", "must be > 0")
	case conf.MaxArea < conf.MinArea:
		return fieldErr("max_area", "must be >= min_area")
	case conf.Grid <= 0:
		return fieldErr("grid", "must be > 0")
	case conf.MinSeparation < 0:
		return fieldErr("min_separation", "must be >= 0")
	case conf.MaxBackground < 0:
		return fieldErr("max_background", "must be >= 0")
	case conf.MinBackground < 0 || conf.MinBackground > conf.MaxBackground:
		return fieldErr("min_background", "must be in [0, max_background]")
	case conf.BackgroundDilation < 0:
		return fieldErr("background_dilation", "must be >= 0")
	case conf.ThresholdMethod != ThresholdOtsu && conf.ThresholdMethod != ThresholdAdaptive:
		return fieldErr("threshold_method", fmt.Sprintf("must be %q or %q", ThresholdOtsu, ThresholdAdaptive))
	case conf.AdaptiveBlockSize < 3 || conf.AdaptiveBlockSize%2 == 0:
		return fieldErr("adaptive_block_size", "must be odd and >= 3")
	case conf.KernelSize < 3 || conf.KernelSize > 7 || conf.KernelSize%2 == 0:
		return fieldErr("kernel_size", "must be one of 3, 5, 7")
	case conf.Iterations < 0:
		return fieldErr("iterations", "must be >= 0")
	case conf.BlurDiameter < 0:
		return fieldErr("blur_diameter", "must be >= 0")
	case conf.BlurDiameter > 0 && (conf.BlurSigmaColor <= 0 || conf.BlurSigmaSpace <= 0):
		return fieldErr("blur_sigma_color", "and blur_sigma_space must be > 0 when blurring")
	case conf.CoreFraction < 0 || conf.CoreFraction >= 1:
		return fieldErr("core_fraction", "must be in [0, 1)")
	}
	return nil
}

// ClassifyConfig holds the channel thresholds used to read markers back from a raster.
type ClassifyConfig struct {
	GreenThreshold int `json:"green_threshold" yaml:"green_threshold"`
	RedThreshold   int `json:"red_threshold" yaml:"red_threshold"`
}

// DefaultClassifyConfig returns the thresholds used when nothing is configured.
func DefaultClassifyConfig() ClassifyConfig {
	return ClassifyConfig{GreenThreshold: 50, RedThreshold: 50}
}

// Validate ensures all parts of the config are valid.
func (conf *ClassifyConfig) Validate(path string) error {
	if conf.GreenThreshold < 0 || conf.GreenThreshold > 254 {
		return utils.NewConfigValidationFieldError(path, "green_threshold", "must be in [0, 254]")
	}
	if conf.RedThreshold < 0 || conf.RedThreshold > 254 {
		return utils.NewConfigValidationFieldError(path, "red_threshold", "must be in [0, 254]")
	}
	return nil
}
