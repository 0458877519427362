package markers

import (
	"encoding/json"
	"io"
	"os"

	"github.com/markerseg/markerseg/utils"
)

// ReadPoints loads a points document, as written by WritePoints or by hand.
func ReadPoints(path string) (*Result, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewIOError(path, err)
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, utils.NewDecodeError(path, err)
	}
	return &res, nil
}

// WritePoints saves res as a points document, atomically.
func WritePoints(path string, res *Result) error {
	return utils.AtomicWriteFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	})
}
