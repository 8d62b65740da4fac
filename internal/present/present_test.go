package present_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/present"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() sensor.Snapshot {
	snap := sensor.Reconcile([]sensor.Entry{
		{Key: "Label.TCPU", Value: "CPU"},
		{Key: "Value.TCPU", Value: "45"},
		{Key: "Label.FCPU", Value: "CPU Fan"},
		{Key: "Value.FCPU", Value: "1250"},
		{Key: "Label.VCPU", Value: "CPU Core"},
		{Key: "Value.VCPU", Value: " 1.20\t"},
	})
	snap.Time = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	return snap
}

func TestPlainListing(t *testing.T) {
	var buf bytes.Buffer
	p := present.NewPlain(&buf)

	require.NoError(t, p.Present(snapshot()))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "AIDA64 sensor values", lines[0])
	assert.Equal(t, "#0 FCPU: CPU Fan = 1250", lines[1])
	assert.Equal(t, "#1 TCPU: CPU = 45", lines[2])
	assert.Equal(t, "#2 VCPU: CPU Core =  1.20\t", lines[3])
	assert.Contains(t, lines[5], "3 sensors")
	assert.NotContains(t, buf.String(), "\x1b")
}

func TestPlainEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := present.NewPlain(&buf)

	require.NoError(t, p.Present(sensor.Reconcile(nil)))
	assert.Contains(t, buf.String(), "no sensor data")
	assert.Contains(t, buf.String(), "0 sensors")
}

func TestConsoleClearsScreen(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, present.NewConsole(&buf, true).Present(snapshot()))
	assert.True(t, strings.HasPrefix(buf.String(), "\x1b[H\x1b[2J"))
	for _, s := range []string{"FCPU", "CPU Fan", "1250", "VCPU"} {
		assert.Contains(t, buf.String(), s)
	}

	buf.Reset()
	require.NoError(t, present.NewConsole(&buf, false).Present(snapshot()))
	assert.False(t, strings.HasPrefix(buf.String(), "\x1b[H\x1b[2J"))
}

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	p := present.NewJSON(&buf)

	require.NoError(t, p.Present(snapshot()))
	require.NoError(t, p.Present(sensor.Reconcile(nil)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var doc struct {
		Time    time.Time `json:"time"`
		Sensors []struct {
			Index int    `json:"index"`
			ID    string `json:"id"`
			Label string `json:"label"`
			Value string `json:"value"`
		} `json:"sensors"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &doc))
	assert.True(t, doc.Time.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	require.Len(t, doc.Sensors, 3)
	assert.Equal(t, 2, doc.Sensors[2].Index)
	assert.Equal(t, "VCPU", doc.Sensors[2].ID)
	assert.Equal(t, " 1.20\t", doc.Sensors[2].Value)

	assert.Contains(t, lines[1], `"sensors":[]`)
}

func TestPresenterDoesNotMutate(t *testing.T) {
	snap := snapshot()
	before := snap.Records()

	for _, p := range []present.Presenter{
		present.NewPlain(&bytes.Buffer{}),
		present.NewConsole(&bytes.Buffer{}, true),
		present.NewJSON(&bytes.Buffer{}),
	} {
		require.NoError(t, p.Present(snap))
	}

	assert.Equal(t, before, snap.Records())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New().New(errors.ErrInternal)
}

func TestPresentWriteFailure(t *testing.T) {
	err := present.NewPlain(failingWriter{}).Present(snapshot())
	assert.True(t, errors.HasCode(err, present.ErrPresentFailed))

	err = present.NewJSON(failingWriter{}).Present(snapshot())
	assert.True(t, errors.HasCode(err, present.ErrPresentFailed))
}

func TestNew(t *testing.T) {
	for _, format := range present.Formats() {
		p, err := present.New(format, &bytes.Buffer{}, false)
		require.NoError(t, err, format)
		assert.NotNil(t, p)
	}

	_, err := present.New("xml", &bytes.Buffer{}, false)
	assert.True(t, errors.HasCode(err, present.ErrInvalidOutput))
}
