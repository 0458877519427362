// Package config defines the settings file of markerseg.
package config

import (
	"github.com/markerseg/markerseg/logging"
	"github.com/markerseg/markerseg/vision/markers"
	"github.com/markerseg/markerseg/vision/segmentation"
)

// Config is the whole configuration: how to find markers, how to read them back and how to segment.
type Config struct {
	LogLevel     string                 `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Markers      markers.Config         `json:"markers" yaml:"markers"`
	Classify     markers.ClassifyConfig `json:"classify" yaml:"classify"`
	Segmentation segmentation.Config    `json:"segmentation" yaml:"segmentation"`

	// ConfigFilePath is the file the config was read from, if any.
	ConfigFilePath string `json:"-" yaml:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Markers:      markers.DefaultConfig(),
		Classify:     markers.DefaultClassifyConfig(),
		Segmentation: segmentation.DefaultConfig(),
	}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := logging.LevelFromString(c.LogLevel); err != nil {
			return err
		}
	}
	if err := c.Markers.Validate("markers"); err != nil {
		return err
	}
	if err := c.Classify.Validate("classify"); err != nil {
		return err
	}
	return c.Segmentation.Validate("segmentation")
}
