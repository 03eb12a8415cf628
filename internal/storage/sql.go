package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// kvTable is the table both SQL drivers keep values in.
const kvTable = "kv"

// sqlMedium implements Medium over database/sql. The placeholder format of
// the builder is the only dialect difference between drivers.
type sqlMedium struct {
	db *sql.DB
	qb sq.StatementBuilderType
}

func (m *sqlMedium) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := m.qb.
		Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build get query: %w", err)
	}

	var value string
	err = m.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (m *sqlMedium) Set(ctx context.Context, key, value string) error {
	query, args, err := m.qb.
		Insert(kvTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build set query: %w", err)
	}

	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (m *sqlMedium) Close() error {
	return m.db.Close()
}
