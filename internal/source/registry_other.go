//go:build !windows

package source

import (
	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
)

// NewRegistry fails outside Windows; use the regfile source with an exported
// .reg file instead.
func NewRegistry(path string, _ logger.Logger) (Source, error) {
	return nil, errors.New().
		WithMessage(ErrUnavailable, "registry source is only available on Windows").
		WithData(path)
}
