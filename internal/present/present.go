// Package present renders sensor snapshots for the operator. A presenter
// only reads the snapshot it is given.
package present

import (
	"io"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/sensor"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatPlain   = "plain"
	FormatJSON    = "json"
)

// Presenter displays one snapshot per cycle.
type Presenter interface {
	Present(snap sensor.Snapshot) error
}

// Formats lists the accepted output formats.
func Formats() []string {
	return []string{FormatConsole, FormatPlain, FormatJSON}
}

// New returns the presenter for format writing to w. noClear keeps the
// console presenter from clearing the screen before each listing.
func New(format string, w io.Writer, noClear bool) (Presenter, error) {
	switch format {
	case FormatConsole, "":
		return NewConsole(w, !noClear), nil
	case FormatPlain:
		return NewPlain(w), nil
	case FormatJSON:
		return NewJSON(w), nil
	}

	return nil, errors.New().WithData(ErrInvalidOutput, format)
}
