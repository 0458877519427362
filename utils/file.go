package utils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// AtomicWriteFile writes the output of write to path in one step. The data is first written
// to a temporary file in the same directory which is then renamed over path, so a failed
// write never leaves a partial or stale file behind.
func AtomicWriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return NewIOError(path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			RemoveFileNoError(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		return multierr.Combine(errors.Wrapf(err, "writing %q", path), tmp.Close())
	}
	if err := tmp.Sync(); err != nil {
		return multierr.Combine(NewIOError(path, err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return NewIOError(path, err)
	}
	//nolint:gosec
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return NewIOError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return NewIOError(path, err)
	}
	return nil
}

// RemoveFileNoError will remove the file at the given path if it exists. Any
// errors will be suppressed.
func RemoveFileNoError(path string) {
	utils.UncheckedErrorFunc(func() error {
		if _, err := os.Stat(path); err == nil {
			return os.Remove(path)
		}
		return nil
	})
}
