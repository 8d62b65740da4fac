package source

import (
	"regexp"
	"time"

	"codeberg.org/mutker/aidasensors/internal/errors"
)

// Source kinds.
const (
	KindRegistry = "registry"
	KindRegFile  = "regfile"
	KindSQLite   = "sqlite"
	KindHTTP     = "http"
	KindFixture  = "fixture"
	KindNVML     = "nvml"
)

const (
	// DefaultRegistryKey is where AIDA64 publishes sensor values, relative to
	// HKEY_CURRENT_USER.
	DefaultRegistryKey = `Software\FinalWire\AIDA64\SensorValues`
	DefaultSection     = `HKEY_CURRENT_USER\` + DefaultRegistryKey
	DefaultTable       = "sensor_values"
	DefaultTimeout     = 500 * time.Millisecond
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Kinds lists every supported source kind.
func Kinds() []string {
	return []string{KindRegistry, KindRegFile, KindSQLite, KindHTTP, KindFixture, KindNVML}
}

type Config struct {
	Kind        string        `mapstructure:"kind"`
	RegistryKey string        `mapstructure:"registry_key"`
	Path        string        `mapstructure:"path"`
	Section     string        `mapstructure:"section"`
	Table       string        `mapstructure:"table"`
	URL         string        `mapstructure:"url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		Kind:        KindRegistry,
		RegistryKey: DefaultRegistryKey,
		Section:     DefaultSection,
		Table:       DefaultTable,
		Timeout:     DefaultTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	switch c.Kind {
	case KindRegistry:
		if c.RegistryKey == "" {
			return errFactory.WithData(ErrInvalidConfig, "source.registry_key is required")
		}
	case KindRegFile, KindFixture:
		if c.Path == "" {
			return errFactory.WithData(ErrInvalidConfig, "source.path is required for "+c.Kind)
		}
	case KindSQLite:
		if c.Path == "" {
			return errFactory.WithData(ErrInvalidConfig, "source.path is required for sqlite")
		}
		if !tableNameRe.MatchString(c.Table) {
			return errFactory.WithData(ErrInvalidConfig, "invalid source.table: "+c.Table)
		}
	case KindHTTP:
		if c.URL == "" {
			return errFactory.WithData(ErrInvalidConfig, "source.url is required for http")
		}
		if c.Timeout <= 0 {
			return errFactory.WithData(ErrInvalidConfig, "source.timeout must be positive")
		}
	case KindNVML:
	default:
		return errFactory.WithData(ErrInvalidConfig, "unknown source kind: "+c.Kind)
	}

	return nil
}
