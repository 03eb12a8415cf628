package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath is used by the sqlite driver when no path is configured.
const DefaultSQLitePath = "storage.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`

// SQLiteMedium stores values in a SQLite table.
type SQLiteMedium struct {
	sqlMedium
}

// NewSQLiteMedium wraps an open connection. The kv table must exist;
// OpenSQLite creates it.
func NewSQLiteMedium(db *sql.DB) *SQLiteMedium {
	return &SQLiteMedium{sqlMedium{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}}
}

// OpenSQLite opens (creating if needed) the database file at path and
// ensures the schema exists. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, path string) (*SQLiteMedium, error) {
	if path == "" {
		path = DefaultSQLitePath
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases and write ordering stable.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return NewSQLiteMedium(db), nil
}
