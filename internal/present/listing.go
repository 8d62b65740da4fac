package present

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"github.com/charmbracelet/lipgloss"
)

const (
	clearScreen = "\x1b[H\x1b[2J"

	title     = "AIDA64 sensor values"
	emptyText = "no sensor data"
	hintText  = "records are addressed by index in id order"
)

var (
	colorTitle = lipgloss.Color("214")
	colorIndex = lipgloss.Color("243")
	colorID    = lipgloss.Color("39")
	colorLabel = lipgloss.Color("250")
	colorValue = lipgloss.Color("78")
	colorDim   = lipgloss.Color("239")
)

type listingStyles struct {
	title lipgloss.Style
	index lipgloss.Style
	id    lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	dim   lipgloss.Style
}

// listing prints the numbered record list. The console variant styles it
// and clears the screen first; the plain variant does neither.
type listing struct {
	w      io.Writer
	clear  bool
	styles listingStyles
}

// NewConsole returns a styled presenter. Colors are only emitted when w is
// a terminal.
func NewConsole(w io.Writer, clear bool) Presenter {
	// Sensor text is shown verbatim, tabs included.
	base := lipgloss.NewRenderer(w).NewStyle().TabWidth(lipgloss.NoTabConversion)

	return &listing{
		w:     w,
		clear: clear,
		styles: listingStyles{
			title: base.Bold(true).Foreground(colorTitle),
			index: base.Foreground(colorIndex),
			id:    base.Foreground(colorID),
			label: base.Foreground(colorLabel),
			value: base.Bold(true).Foreground(colorValue),
			dim:   base.Foreground(colorDim),
		},
	}
}

// NewPlain returns an unstyled presenter that never clears the screen.
func NewPlain(w io.Writer) Presenter {
	s := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)

	return &listing{
		w:      w,
		styles: listingStyles{title: s, index: s, id: s, label: s, value: s, dim: s},
	}
}

func (l *listing) Present(snap sensor.Snapshot) error {
	var b strings.Builder

	if l.clear {
		b.WriteString(clearScreen)
	}

	b.WriteString(l.styles.title.Render(title))
	b.WriteString("\n")

	if snap.Empty() {
		b.WriteString(l.styles.dim.Render(emptyText))
		b.WriteString("\n")
	}

	width := len(fmt.Sprint(snap.Len() - 1))
	for i, n := 0, snap.Len(); i < n; i++ {
		rec := snap.At(i)
		fmt.Fprintf(&b, "%s %s: %s = %s\n",
			l.styles.index.Render(fmt.Sprintf("#%-*d", width, i)),
			l.styles.id.Render(rec.ID),
			l.styles.label.Render(rec.Label),
			l.styles.value.Render(rec.Value),
		)
	}

	b.WriteString("\n")
	b.WriteString(l.styles.dim.Render(fmt.Sprintf("%d sensors, %s", snap.Len(), hintText)))
	b.WriteString("\n")

	if _, err := io.WriteString(l.w, b.String()); err != nil {
		return errors.New().Wrap(ErrPresentFailed, err)
	}

	return nil
}
