//go:build windows

package source

import (
	"context"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

type registrySource struct {
	path string
	log  logger.Logger
}

// NewRegistry reads the REG_SZ values below HKEY_CURRENT_USER\path. The key
// is opened afresh every cycle so a publisher started after us is picked up.
func NewRegistry(path string, log logger.Logger) (Source, error) {
	return &registrySource{path: path, log: log}, nil
}

func (r *registrySource) Name() string {
	return "registry:" + r.path
}

func (r *registrySource) Enumerate(ctx context.Context) ([]sensor.Entry, error) {
	errFactory := errors.New()

	k, err := registry.OpenKey(registry.CURRENT_USER, r.path, registry.QUERY_VALUE)
	if err != nil {
		return nil, registryError(ErrUnavailable, err).WithData(r.path)
	}
	defer k.Close()

	info, err := k.Stat()
	if err != nil {
		return nil, registryError(ErrQueryFailed, err).WithData("query key info")
	}

	names, err := k.ReadValueNames(0)
	if err != nil {
		return nil, registryError(ErrQueryFailed, err).WithData("enumerate values")
	}

	entries := make([]sensor.Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, errFactory.Wrap(ErrUnavailable, err).WithData("cancelled")
		}

		value, valType, err := k.GetStringValue(name)
		switch {
		case err == nil && valType == registry.SZ:
			entries = append(entries, sensor.Entry{Key: name, Value: value})
		case err == nil,
			errors.Is(err, registry.ErrUnexpectedType),
			errors.Is(err, registry.ErrNotExist):
			// not a plain string, or removed since the names were read
		default:
			return nil, registryError(ErrQueryFailed, err).WithData(name)
		}
	}

	r.log.Debug().
		Uint32("value_count", info.ValueCount).
		Uint32("max_value_name_len", info.MaxValueNameLen).
		Int("entries", len(entries)).
		Msg("Registry enumerated")

	return entries, nil
}

func (*registrySource) Close() error {
	return nil
}

func registryError(fallback errors.ErrorCode, err error) errors.Error {
	errFactory := errors.New()

	switch {
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return errFactory.Wrap(ErrPermissionDenied, err)
	case errors.Is(err, registry.ErrNotExist):
		return errFactory.Wrap(ErrUnavailable, err)
	}

	return errFactory.Wrap(fallback, err)
}
