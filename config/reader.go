package config

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/markerseg/markerseg/utils"
)

// Read reads a config from the given file, expanding ${VAR} references from the environment first.
// Files ending in .yaml or .yml are YAML, anything else is JSON.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, utils.NewIOError(filePath, err)
	}
	cfg, err := FromReader(filePath, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
// Settings missing from the document keep their default and unknown settings are an error.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	cfg := Default()
	cfg.ConfigFilePath = originalPath

	var err error
	if isYAML(originalPath) {
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(cfg)
	} else {
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	}
	// an empty document means all defaults.
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "cannot parse config %q", originalPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %q", originalPath)
	}
	return cfg, nil
}
