package metrics

import (
	"net"

	"codeberg.org/mutker/aidasensors/internal/errors"
)

const defaultNamespace = "aidasensors"

type Config struct {
	// Listen is the address of the /metrics endpoint. Empty disables
	// metrics collection.
	Listen    string
	Namespace string
}

func DefaultConfig() Config {
	return Config{
		Namespace: defaultNamespace,
	}
}

func (c Config) Enabled() bool {
	return c.Listen != ""
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled() {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return errFactory.Wrap(ErrInvalidListen, err).WithData(c.Listen)
	}

	return nil
}
