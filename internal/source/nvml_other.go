//go:build !linux

package source

import (
	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
)

type unsupportedGPUReader struct{}

func newGPUReader(logger.Logger) gpuReader {
	return unsupportedGPUReader{}
}

func (unsupportedGPUReader) Init() error {
	return errors.New().WithMessage(ErrUnavailable, "NVML source is only available on Linux")
}

func (unsupportedGPUReader) Shutdown() error {
	return nil
}

func (unsupportedGPUReader) Read() ([]gpuDevice, error) {
	return nil, errors.New().WithMessage(ErrUnavailable, "NVML source is only available on Linux")
}
