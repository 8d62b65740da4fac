package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/aidasensors/internal/config"
	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/metrics"
	"codeberg.org/mutker/aidasensors/internal/source"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "aidasensors.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
interval = "2s"
cycles = 10
output = "json"
no_clear = true
log_level = "debug"
pid_file = ""
metrics_listen = "127.0.0.1:9184"

[source]
kind = "sqlite"
path = "/var/lib/aida/sensors.db"
table = "readings"
`)

	cfg, err := config.Load(nil, config.WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Interval, "Expected Interval 2s")
	assert.Equal(t, 10, cfg.Cycles)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.NoClear)
	assert.Equal(t, config.LogLevelDebug, cfg.LogLevel)
	assert.Empty(t, cfg.PIDFile)
	assert.Equal(t, "127.0.0.1:9184", cfg.Metrics().Listen)
	assert.Equal(t, source.KindSQLite, cfg.Source.Kind)
	assert.Equal(t, "/var/lib/aida/sensors.db", cfg.Source.Path)
	assert.Equal(t, "readings", cfg.Source.Table)
	assert.Equal(t, source.DefaultTimeout, cfg.Source.Timeout, "unset keys keep their defaults")
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("AIDASENSORS_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, time.Second, cfg.Interval, "Expected default Interval 1s")
	assert.Equal(t, 0, cfg.Cycles)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
	assert.False(t, cfg.NoClear)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultPIDFile(), cfg.PIDFile)
	assert.False(t, cfg.Metrics().Enabled())
	assert.Equal(t, source.DefaultConfig(), cfg.Source)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
interval = "3s"
output = "json"
log_level = "error"
`)
	t.Setenv("AIDASENSORS_CONFIG", path)
	t.Setenv("AIDASENSORS_OUTPUT", "plain")
	t.Setenv("AIDASENSORS_SOURCE_KIND", "fixture")
	t.Setenv("AIDASENSORS_SOURCE_PATH", "/tmp/sensors.yaml")

	cfg, err := config.Load([]string{"--interval", "500ms"})
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Interval, "flag beats file")
	assert.Equal(t, "plain", cfg.Output, "environment beats file")
	assert.Equal(t, config.LogLevelError, cfg.LogLevel, "file beats default")
	assert.Equal(t, source.KindFixture, cfg.Source.Kind)
	assert.Equal(t, "/tmp/sensors.yaml", cfg.Source.Path)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	path := writeConfig(t, `
This is not a valid TOML file
`)

	_, err := config.Load([]string{"--config", path})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(nil, config.WithConfigFile(filepath.Join(t.TempDir(), "absent.toml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("AIDASENSORS_CONFIG", "")

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"zero interval", []string{"--interval", "0s"}, errors.ErrInvalidInterval},
		{"negative interval", []string{"--interval", "-1s"}, errors.ErrInvalidInterval},
		{"negative cycles", []string{"--cycles", "-1"}, errors.ErrInvalidConfig},
		{"log level", []string{"--log-level", "invalid"}, errors.ErrInvalidLogLevel},
		{"output", []string{"--output", "xml"}, errors.ErrInvalidOutput},
		{"source kind", []string{"--source", "wmi"}, errors.ErrInvalidSource},
		{"regfile without path", []string{"--source", "regfile"}, errors.ErrInvalidSource},
		{"metrics address", []string{"--metrics-listen", "9184"}, metrics.ErrInvalidListen},
		{"unknown flag", []string{"--fanspeed", "80"}, errors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.args)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("AIDASENSORS_CONFIG", "")

	cfg, err := config.Load([]string{"--log-level", "info"})
	require.NoError(t, err)
	assert.Equal(t, config.LogLevelInfo, cfg.LogLevel, "Expected LogLevel to be set by flag")

	cfg, err = config.Load([]string{"--log-level", "error", "-d"})
	require.NoError(t, err)
	assert.Equal(t, config.LogLevelDebug, cfg.LogLevel, "Expected debug shorthand to win")

	cfg, err = config.Load([]string{"-v"})
	require.NoError(t, err)
	assert.Equal(t, config.LogLevelInfo, cfg.LogLevel)
}

func TestHelpFlag(t *testing.T) {
	_, err := config.Load([]string{"--help"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestLogLevelIsValid(t *testing.T) {
	assert.True(t, config.LogLevelWarning.IsValid())
	assert.False(t, config.LogLevel("verbose").IsValid())
}
