package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"github.com/mattn/go-sqlite3"
)

const sqliteBusyTimeoutMillis = 200

// uriEscaper escapes the characters that are significant in an sqlite URI
// filename.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

type sqliteSource struct {
	db    *sql.DB
	path  string
	table string
	query string
	log   logger.Logger
}

// NewSQLite reads name/value rows from table in the database at path. The
// database is opened read-only; only rows whose value is text are returned.
func NewSQLite(path, table string, log logger.Logger) (Source, error) {
	errFactory := errors.New()

	if !tableNameRe.MatchString(table) {
		return nil, errFactory.WithData(ErrInvalidConfig, "invalid table name: "+table)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=%d", uriEscaper.Replace(path), sqliteBusyTimeoutMillis)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(errors.ErrInitFailed, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "open_database",
			Path:  path,
			Error: err.Error(),
		})
	}
	db.SetMaxOpenConns(1)

	log.Debug().Str("path", path).Str("table", table).Msg("SQLite source initialized")

	return &sqliteSource{
		db:    db,
		path:  path,
		table: table,
		query: fmt.Sprintf(`SELECT name, value FROM %q WHERE typeof(value) = 'text'`, table),
		log:   log,
	}, nil
}

func (s *sqliteSource) Name() string {
	return "sqlite:" + s.path
}

func (s *sqliteSource) Enumerate(ctx context.Context) ([]sensor.Entry, error) {
	errFactory := errors.New()

	// sqlite reports every open failure as SQLITE_CANTOPEN, so check the
	// file first to tell a missing database from an unreadable one.
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fileError(s.path, err)
	}
	f.Close()

	exists, err := tableExists(ctx, s.db, s.table)
	if err != nil {
		return nil, sqliteError(err).WithData("check_table_exists")
	}
	if !exists {
		return nil, errFactory.WithData(ErrQueryFailed, "table not found: "+s.table)
	}

	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, sqliteError(err).WithData("select_values")
	}
	defer rows.Close()

	var entries []sensor.Entry
	for rows.Next() {
		var e sensor.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, sqliteError(err).WithData("scan_row")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, sqliteError(err).WithData("read_rows")
	}

	s.log.Debug().Str("table", s.table).Int("entries", len(entries)).Msg("SQLite store enumerated")

	return entries, nil
}

func (s *sqliteSource) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.New().Wrap(errors.ErrShutdownFailed, err)
	}

	return nil
}

func tableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type IN ('table', 'view') AND name = ?
        )
    `, tableName).Scan(&exists)

	return exists, err
}

func sqliteError(err error) errors.Error {
	errFactory := errors.New()

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrNotADB:
			return errFactory.Wrap(ErrUnavailable, err)
		case sqlite3.ErrPerm, sqlite3.ErrAuth:
			return errFactory.Wrap(ErrPermissionDenied, err)
		}
	}

	return errFactory.Wrap(ErrQueryFailed, err)
}
