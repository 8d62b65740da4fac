package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"codeberg.org/mutker/aidasensors/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

const regExport = "Windows Registry Editor Version 5.00\r\n" +
	"\r\n" +
	"[HKEY_CURRENT_USER\\Software\\FinalWire\\AIDA64]\r\n" +
	"\"Label.OUTSIDE\"=\"not wanted\"\r\n" +
	"\r\n" +
	"[HKEY_CURRENT_USER\\Software\\FinalWire\\AIDA64\\SensorValues]\r\n" +
	"\"Label.TCPU\"=\"CPU\"\r\n" +
	"\"Value.TCPU\"=\"45\"\r\n" +
	"\"Label.TCC-1-1\"=\"CPU Core #1\"\r\n" +
	"\"Value.TCC-1-1\"=\"44\"\r\n" +
	"\"Label.PATH\"=\"C:\\\\Temp \\\"quoted\\\"\"\r\n" +
	"\"Value.PATH\"=\" 1.20 V \"\r\n" +
	"\"Value.DWORD\"=dword:0000002d\r\n" +
	"\"Value.HEX\"=hex:01,02,\\\r\n" +
	"  03,04\r\n" +
	"; comment\r\n" +
	"\"Broken=\"x\"\r\n" +
	"@=\"default\"\r\n" +
	"\"Label.TGPU1\"=\"GPU\"\r\n" +
	"\r\n" +
	"[HKEY_CURRENT_USER\\Software\\Other]\r\n" +
	"\"Value.TGPU1\"=\"not wanted\"\r\n"

func writeRegFile(t *testing.T, content string, utf16 bool) string {
	t.Helper()

	data := []byte(content)
	if utf16 {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		var err error
		data, err = enc.Bytes(data)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "sensors.reg")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestRegFileUTF16(t *testing.T) {
	path := writeRegFile(t, regExport, true)
	src := source.NewRegFile(path, source.DefaultSection, logger.Nop())

	entries, err := src.Enumerate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []sensor.Entry{
		{Key: "Label.TCPU", Value: "CPU"},
		{Key: "Value.TCPU", Value: "45"},
		{Key: "Label.TCC-1-1", Value: "CPU Core #1"},
		{Key: "Value.TCC-1-1", Value: "44"},
		{Key: "Label.PATH", Value: `C:\Temp "quoted"`},
		{Key: "Value.PATH", Value: " 1.20 V "},
		{Key: "Label.TGPU1", Value: "GPU"},
	}, entries)

	snap := sensor.Reconcile(entries)
	assert.Equal(t, 3, snap.Len())
}

func TestRegFileUTF8AllSections(t *testing.T) {
	path := writeRegFile(t, regExport, false)
	src := source.NewRegFile(path, "", logger.Nop())

	entries, err := src.Enumerate(context.Background())
	require.NoError(t, err)

	snap := sensor.Reconcile(entries)
	rec, ok := snap.Lookup("TGPU1")
	require.True(t, ok, "fragments from every section are merged without a filter")
	assert.Equal(t, "not wanted", rec.Value)
	assert.Len(t, entries, 9)
}

func TestRegFileSectionCaseInsensitive(t *testing.T) {
	path := writeRegFile(t, regExport, false)
	src := source.NewRegFile(path, `hkey_current_user\software\finalwire\aida64\sensorvalues`, logger.Nop())

	entries, err := src.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 7)
}

func TestRegFileNoTrailingNewline(t *testing.T) {
	path := writeRegFile(t, "\"Label.T1\"=\"CPU\"\n\"Value.T1\"=\"45\"", false)
	src := source.NewRegFile(path, "", logger.Nop())

	entries, err := src.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRegFileMissing(t *testing.T) {
	src := source.NewRegFile(filepath.Join(t.TempDir(), "absent.reg"), "", logger.Nop())

	_, err := src.Enumerate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, source.ErrUnavailable))
}
