package utils

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
)

// IOError is used when an artifact is missing or cannot be read or written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot access %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError is used when an artifact at path is missing, unreadable or unwritable.
func NewIOError(path string, err error) error {
	return &IOError{Path: path, Err: err}
}

// DecodeError is used when an artifact exists but its format is unsupported or corrupt.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError is used when the image at path cannot be decoded.
func NewDecodeError(path string, err error) error {
	return &DecodeError{Path: path, Err: err}
}

// ShapeMismatchError is used when two grids that must line up pixel for pixel do not.
type ShapeMismatchError struct {
	Expected image.Point
	Actual   image.Point
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: expected %dx%d but got %dx%d",
		e.Expected.X, e.Expected.Y, e.Actual.X, e.Actual.Y)
}

// NewShapeMismatchError is used when the size of actual differs from the size of expected.
func NewShapeMismatchError(expected, actual image.Point) error {
	return &ShapeMismatchError{Expected: expected, Actual: actual}
}

// MissingMarkerError is used when a marker class required by a strategy is absent.
type MissingMarkerError struct {
	Missing []string
}

func (e *MissingMarkerError) Error() string {
	switch len(e.Missing) {
	case 0:
		return "missing markers"
	case 1:
		return fmt.Sprintf("missing %s markers", e.Missing[0])
	default:
		return fmt.Sprintf("missing %s and %s markers", e.Missing[0], e.Missing[1])
	}
}

// NewMissingMarkerError is used when the named marker classes have no pixels.
func NewMissingMarkerError(missing ...string) error {
	return &MissingMarkerError{Missing: missing}
}

// InternalProcessingError is used when a primitive operation fails unexpectedly.
type InternalProcessingError struct {
	Op  string
	Err error
}

func (e *InternalProcessingError) Error() string {
	return fmt.Sprintf("internal error during %s: %v", e.Op, e.Err)
}

func (e *InternalProcessingError) Unwrap() error {
	return e.Err
}

// NewInternalProcessingError is used when op failed for a reason the caller could not prevent.
func NewInternalProcessingError(op string, err error) error {
	return &InternalProcessingError{Op: op, Err: err}
}

// IsMissingMarker reports whether err is or wraps a MissingMarkerError.
func IsMissingMarker(err error) bool {
	var target *MissingMarkerError
	return errors.As(err, &target)
}

// IsShapeMismatch reports whether err is or wraps a ShapeMismatchError.
func IsShapeMismatch(err error) bool {
	var target *ShapeMismatchError
	return errors.As(err, &target)
}

// NewConfigValidationFieldError is used when a configuration field at path holds an invalid value.
// The message reads "<path>.<field> <reason>".
func NewConfigValidationFieldError(path, field, reason string) error {
	if path == "" {
		return errors.Errorf("%s %s", field, reason)
	}
	return errors.Errorf("%s.%s %s", path, field, reason)
}
