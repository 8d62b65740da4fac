package errors

const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrInvalidSource   ErrorCode = "invalid_source"
	ErrInvalidOutput   ErrorCode = "invalid_output"

	// Source errors. Every telemetry source reports failures with one of these.
	ErrSourceUnavailable      ErrorCode = "source_unavailable"
	ErrSourcePermissionDenied ErrorCode = "source_permission_denied"
	ErrSourceQueryFailed      ErrorCode = "source_query_failed"

	// Presentation errors
	ErrPresentFailed ErrorCode = "present_failed"

	// Lifecycle errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"
	ErrTimeout        ErrorCode = "operation_timeout"

	// Metrics errors
	ErrInitMetrics  ErrorCode = "init_metrics_failed"
	ErrServeMetrics ErrorCode = "serve_metrics_failed"
)

var errorMessages = map[ErrorCode]string{
	ErrInternal:               "Internal error occurred",
	ErrInvalidArgument:        "Invalid argument provided",
	ErrNotImplemented:         "Operation not implemented",
	ErrInvalidConfig:          "Invalid configuration",
	ErrReadConfig:             "Failed to read configuration",
	ErrBindFlags:              "Failed to bind flags",
	ErrInvalidInterval:        "Invalid interval value",
	ErrInvalidLogLevel:        "Invalid log level",
	ErrInvalidSource:          "Invalid telemetry source",
	ErrInvalidOutput:          "Invalid output format",
	ErrSourceUnavailable:      "Telemetry source unavailable",
	ErrSourcePermissionDenied: "Permission denied by telemetry source",
	ErrSourceQueryFailed:      "Telemetry source query failed",
	ErrPresentFailed:          "Failed to present snapshot",
	ErrInitFailed:             "Initialization failed",
	ErrShutdownFailed:         "Shutdown failed",
	ErrAlreadyRunning:         "Another instance is already running",
	ErrTimeout:                "Operation timed out",
	ErrInitMetrics:            "Failed to initialize metrics",
	ErrServeMetrics:           "Failed to serve metrics",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
