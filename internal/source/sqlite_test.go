package source_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"codeberg.org/mutker/aidasensors/internal/source"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSensorDB(t *testing.T, table string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sensors.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE "` + table + `" (name TEXT PRIMARY KEY, value)`)
	require.NoError(t, err)

	rows := []struct {
		name  string
		value any
	}{
		{"Label.TCPU", "CPU"},
		{"Value.TCPU", "45"},
		{"Label.FCPU", "CPU Fan"},
		{"Value.FCPU", 1250},
		{"Label.VCPU", "CPU Core"},
		{"Value.VCPU", "1.20"},
		{"Version", "7.00"},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO "`+table+`" (name, value) VALUES (?, ?)`, r.name, r.value)
		require.NoError(t, err)
	}

	return path
}

func TestSQLiteEnumerate(t *testing.T) {
	path := createSensorDB(t, source.DefaultTable)

	src, err := source.NewSQLite(path, source.DefaultTable, logger.Nop())
	require.NoError(t, err)
	defer src.Close()

	entries, err := src.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 6, "the integer value is not a string value")

	snap := sensor.Reconcile(entries)
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, sensor.Record{ID: "TCPU", Label: "CPU", Value: "45"}, snap.At(0))
	assert.Equal(t, sensor.Record{ID: "VCPU", Label: "CPU Core", Value: "1.20"}, snap.At(1))
	assert.Equal(t, 1, snap.Stats.Ignored)
	assert.Equal(t, 1, snap.Stats.Incomplete)
}

func TestSQLiteMissingDatabase(t *testing.T) {
	src, err := source.NewSQLite(filepath.Join(t.TempDir(), "absent.db"), source.DefaultTable, logger.Nop())
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Enumerate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, source.ErrUnavailable))
}

func TestSQLiteMissingTable(t *testing.T) {
	path := createSensorDB(t, "other_values")

	src, err := source.NewSQLite(path, source.DefaultTable, logger.Nop())
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Enumerate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, source.ErrQueryFailed))
}

func TestSQLiteInvalidTableName(t *testing.T) {
	_, err := source.NewSQLite("sensors.db", "x; DROP TABLE y", logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, source.ErrInvalidConfig))
}
