package source

import (
	"io/fs"

	"codeberg.org/mutker/aidasensors/internal/errors"
)

const (
	ErrInvalidConfig = errors.ErrInvalidSource

	// Per-cycle failures
	ErrUnavailable      = errors.ErrSourceUnavailable
	ErrPermissionDenied = errors.ErrSourcePermissionDenied
	ErrQueryFailed      = errors.ErrSourceQueryFailed
)

// fileError classifies a failure to open or read a published file.
func fileError(path string, err error) error {
	errFactory := errors.New()

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errFactory.Wrap(ErrUnavailable, err).WithData(path)
	case errors.Is(err, fs.ErrPermission):
		return errFactory.Wrap(ErrPermissionDenied, err).WithData(path)
	}

	return errFactory.Wrap(ErrQueryFailed, err).WithData(path)
}
