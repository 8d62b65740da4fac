package present

import "codeberg.org/mutker/aidasensors/internal/errors"

const (
	ErrInvalidOutput = errors.ErrInvalidOutput
	ErrPresentFailed = errors.ErrPresentFailed
)
