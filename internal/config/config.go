package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/metrics"
	"codeberg.org/mutker/aidasensors/internal/poll"
	"codeberg.org/mutker/aidasensors/internal/present"
	"codeberg.org/mutker/aidasensors/internal/source"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName          = "aidasensors"
	defaultEnvPrefix = "AIDASENSORS"
	configType       = "toml"

	DefaultLogLevel = LogLevelWarning
	DefaultOutput   = present.FormatConsole
)

type Config struct {
	Interval      time.Duration `mapstructure:"interval"`
	Cycles        int           `mapstructure:"cycles"`
	Output        string        `mapstructure:"output"`
	NoClear       bool          `mapstructure:"no_clear"`
	LogLevel      LogLevel      `mapstructure:"log_level"`
	PIDFile       string        `mapstructure:"pid_file"`
	MetricsListen string        `mapstructure:"metrics_listen"`
	Source        source.Config `mapstructure:"source"`
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"config":         "config",
	"interval":       "interval",
	"cycles":         "cycles",
	"output":         "output",
	"no-clear":       "no_clear",
	"log-level":      "log_level",
	"pid-file":       "pid_file",
	"metrics-listen": "metrics_listen",
	"source":         "source.kind",
	"registry-key":   "source.registry_key",
	"source-path":    "source.path",
	"section":        "source.section",
	"table":          "source.table",
	"url":            "source.url",
	"timeout":        "source.timeout",
}

func DefaultPIDFile() string {
	return filepath.Join(os.TempDir(), appName+".pid")
}

func setDefaults(v *viper.Viper) {
	src := source.DefaultConfig()

	v.SetDefault("interval", poll.DefaultInterval)
	v.SetDefault("cycles", 0)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("no_clear", false)
	v.SetDefault("log_level", string(DefaultLogLevel))
	v.SetDefault("pid_file", DefaultPIDFile())
	v.SetDefault("metrics_listen", "")
	v.SetDefault("source.kind", src.Kind)
	v.SetDefault("source.registry_key", src.RegistryKey)
	v.SetDefault("source.path", src.Path)
	v.SetDefault("source.section", src.Section)
	v.SetDefault("source.table", src.Table)
	v.SetDefault("source.url", src.URL)
	v.SetDefault("source.timeout", src.Timeout)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)

	fs.String("config", "", "Path to a TOML configuration file")
	fs.Duration("interval", poll.DefaultInterval, "Time between the starts of consecutive polls")
	fs.Int("cycles", 0, "Stop after this many polls (0 runs until interrupted)")
	fs.StringP("output", "o", DefaultOutput, "Output format: "+strings.Join(present.Formats(), ", "))
	fs.Bool("no-clear", false, "Do not clear the screen between listings")
	fs.String("log-level", string(DefaultLogLevel), "Log level: debug, info, warning, error")
	fs.BoolP("debug", "d", false, "Enable debugging mode")
	fs.BoolP("verbose", "v", false, "Enable verbose logging")
	fs.String("pid-file", DefaultPIDFile(), "PID file path, empty to disable")
	fs.String("metrics-listen", "", "Serve Prometheus metrics on this address, e.g. :9184")
	fs.StringP("source", "s", source.KindRegistry, "Sensor source: "+strings.Join(source.Kinds(), ", "))
	fs.String("registry-key", source.DefaultRegistryKey, "Registry key below HKEY_CURRENT_USER (registry source)")
	fs.String("source-path", "", "File to read (regfile, sqlite and fixture sources)")
	fs.String("section", source.DefaultSection, "Registry export section, empty for all (regfile source)")
	fs.String("table", source.DefaultTable, "Table holding name/value rows (sqlite source)")
	fs.String("url", "", "Endpoint returning sensor values as JSON (http source)")
	fs.Duration("timeout", source.DefaultTimeout, "Request timeout (http source)")

	return fs
}

// Load reads configuration from, in increasing precedence, defaults, a TOML
// file, AIDASENSORS_* environment variables and args. A missing
// configuration file is not an error unless it was named explicitly.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: defaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
	}

	v := viper.New()
	setDefaults(v)

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err).WithData(flag)
		}
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, o.configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// The shorthand flags win over any configured level.
	if debug, _ := fs.GetBool("debug"); debug {
		cfg.LogLevel = LogLevelDebug
	} else if verbose, _ := fs.GetBool("verbose"); verbose {
		cfg.LogLevel = LogLevelInfo
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	errFactory := errors.New()

	if path == "" {
		path = v.GetString("config")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err).WithData(path)
		}
		return nil
	}

	v.SetConfigName(appName)
	v.SetConfigType(configType)
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appName))
	}
	v.AddConfigPath("/etc/" + appName)
	v.AddConfigPath("/etc")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval.String())
	}
	if c.Cycles < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "cycles must not be negative")
	}
	if !c.LogLevel.IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel.String())
	}
	if !slices.Contains(present.Formats(), c.Output) {
		return errFactory.WithData(errors.ErrInvalidOutput, c.Output)
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}

	return c.Metrics().Validate()
}

// Metrics returns the metrics configuration.
func (c *Config) Metrics() metrics.Config {
	cfg := metrics.DefaultConfig()
	cfg.Listen = c.MetricsListen

	return cfg
}
