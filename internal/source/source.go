// Package source enumerates the raw key/value pairs a telemetry publisher
// exposes. Every implementation reports failures with one of the
// ErrUnavailable, ErrPermissionDenied or ErrQueryFailed codes.
package source

import (
	"context"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
)

// Source is a telemetry publisher polled once per cycle.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Enumerate returns every key/value pair currently published. The order of
	// the returned entries carries no meaning.
	Enumerate(ctx context.Context) ([]sensor.Entry, error)

	// Close releases any handle kept between cycles.
	Close() error
}

// New builds the source selected by cfg.Kind.
func New(cfg Config, log logger.Logger) (Source, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindRegistry:
		return NewRegistry(cfg.RegistryKey, log)
	case KindRegFile:
		return NewRegFile(cfg.Path, cfg.Section, log), nil
	case KindSQLite:
		return NewSQLite(cfg.Path, cfg.Table, log)
	case KindHTTP:
		return NewHTTP(cfg.URL, cfg.Timeout, log), nil
	case KindFixture:
		return NewFixture(cfg.Path, log), nil
	case KindNVML:
		return NewNVML(log), nil
	}

	return nil, errFactory.WithData(ErrInvalidConfig, cfg.Kind)
}

// Static returns fixed entries, or a fixed error, on every call.
type Static struct {
	Entries []sensor.Entry
	Err     error
}

func (*Static) Name() string {
	return "static"
}

func (s *Static) Enumerate(context.Context) ([]sensor.Entry, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]sensor.Entry, len(s.Entries))
	copy(out, s.Entries)

	return out, nil
}

func (*Static) Close() error {
	return nil
}
