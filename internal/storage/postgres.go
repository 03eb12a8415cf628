package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// PostgresMedium stores values in a PostgreSQL table.
type PostgresMedium struct {
	sqlMedium
}

// NewPostgresMedium wraps an open connection. The kv table must exist;
// OpenPostgres creates it.
func NewPostgresMedium(db *sql.DB) *PostgresMedium {
	return &PostgresMedium{sqlMedium{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}}
}

// OpenPostgres connects to dsn, verifies the connection and ensures the
// schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresMedium, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return NewPostgresMedium(db), nil
}
