package source

import (
	"context"
	"os"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"gopkg.in/yaml.v3"
)

type fixtureFile struct {
	Entries []struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"entries"`
}

type fixtureSource struct {
	path string
	log  logger.Logger
}

// NewFixture re-reads a YAML file of recorded entries every cycle:
//
//	entries:
//	  - key: Label.TCPU
//	    value: CPU
//	  - key: Value.TCPU
//	    value: "45"
//
// Scalars are taken verbatim, so an unquoted 045 stays "045".
func NewFixture(path string, log logger.Logger) Source {
	return &fixtureSource{path: path, log: log}
}

func (f *fixtureSource) Name() string {
	return "fixture:" + f.path
}

func (f *fixtureSource) Enumerate(_ context.Context) ([]sensor.Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fileError(f.path, err)
	}

	var doc fixtureFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err).WithData(f.path)
	}

	entries := make([]sensor.Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		entries = append(entries, sensor.Entry{Key: e.Key, Value: e.Value})
	}

	f.log.Debug().Str("path", f.path).Int("entries", len(entries)).Msg("Fixture loaded")

	return entries, nil
}

func (*fixtureSource) Close() error {
	return nil
}
