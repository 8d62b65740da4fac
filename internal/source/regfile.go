package source

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type regFileSource struct {
	path    string
	section string
	log     logger.Logger
}

// NewRegFile reads string values from a regedit export. Regedit writes
// UTF-16LE with a byte order mark; UTF-8 files are accepted too. When section
// is set only values below that key are returned.
func NewRegFile(path, section string, log logger.Logger) Source {
	return &regFileSource{path: path, section: section, log: log}
}

func (r *regFileSource) Name() string {
	return "regfile:" + r.path
}

func (r *regFileSource) Enumerate(_ context.Context) ([]sensor.Entry, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fileError(r.path, err)
	}
	defer f.Close()

	decoded := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	entries, err := parseRegFile(bufio.NewReader(decoded), r.section)
	if err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err).WithData(r.path)
	}

	r.log.Debug().Str("path", r.path).Int("entries", len(entries)).Msg("Registry export parsed")

	return entries, nil
}

func (*regFileSource) Close() error {
	return nil
}

// parseRegFile collects `"name"="value"` lines. Values of any other type
// (dword:, hex:, deletions) and unparseable lines are skipped.
func parseRegFile(r *bufio.Reader, section string) ([]sensor.Entry, error) {
	var entries []sensor.Entry
	inSection := section == ""

	for {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, ";"):
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			key := trimmed[1 : len(trimmed)-1]
			inSection = section == "" || strings.EqualFold(key, section)
		case inSection && strings.HasPrefix(trimmed, `"`):
			if e, ok := parseRegValue(trimmed); ok {
				entries = append(entries, e)
			}
		}

		if err == io.EOF {
			return entries, nil
		}
	}
}

func parseRegValue(line string) (sensor.Entry, bool) {
	name, rest, ok := cutQuoted(line)
	if !ok || !strings.HasPrefix(rest, "=") {
		return sensor.Entry{}, false
	}

	value, rest, ok := cutQuoted(rest[1:])
	if !ok || strings.TrimSpace(rest) != "" {
		return sensor.Entry{}, false
	}

	return sensor.Entry{Key: name, Value: value}, true
}

// cutQuoted unquotes the leading regedit string literal in s, in which only
// \\ and \" are escapes.
func cutQuoted(s string) (string, string, bool) {
	if !strings.HasPrefix(s, `"`) {
		return "", s, false
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
				i++
				b.WriteByte(s[i])
				continue
			}
			b.WriteByte(c)
		case '"':
			return b.String(), s[i+1:], true
		default:
			b.WriteByte(c)
		}
	}

	return "", s, false
}
