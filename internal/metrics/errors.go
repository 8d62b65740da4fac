package metrics

import "codeberg.org/mutker/aidasensors/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidListen = errors.ErrorCode("metrics_invalid_listen_address")

	// Service Errors
	ErrInit  = errors.ErrInitMetrics
	ErrServe = errors.ErrServeMetrics
)
