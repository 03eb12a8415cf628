package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupMock(t *testing.T) (*PostgresMedium, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	medium := NewPostgresMedium(db)
	cleanup := func() {
		db.Close()
	}
	return medium, mock, cleanup
}

func TestPostgresGet_Success(t *testing.T) {
	medium, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("accounts").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":"1"}]`))

	v, ok, err := medium.Get(context.Background(), "accounts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != `[{"id":"1"}]` {
		t.Errorf("Get = %q, %v; want stored value", v, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresGet_Absent(t *testing.T) {
	medium, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("accounts").
		WillReturnError(sql.ErrNoRows)

	v, ok, err := medium.Get(context.Background(), "accounts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || v != "" {
		t.Errorf("Get = %q, %v; want absent", v, ok)
	}
}

func TestPostgresGet_Error(t *testing.T) {
	medium, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("accounts").
		WillReturnError(errors.New("connection reset"))

	_, _, err := medium.Get(context.Background(), "accounts")
	if err == nil || !strings.Contains(err.Error(), "get accounts") {
		t.Errorf("expected wrapped get error, got %v", err)
	}
}

func TestPostgresSet_Upsert(t *testing.T) {
	medium, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv (key,value) VALUES ($1,$2) ON CONFLICT (key) DO UPDATE SET value = excluded.value`)).
		WithArgs("accounts", "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := medium.Set(context.Background(), "accounts", "[]"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresSet_Error(t *testing.T) {
	medium, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO kv`).
		WithArgs("accounts", "[]").
		WillReturnError(errors.New("disk full"))

	err := medium.Set(context.Background(), "accounts", "[]")
	if err == nil || !strings.Contains(err.Error(), "set accounts") {
		t.Errorf("expected wrapped set error, got %v", err)
	}
}

func TestOpenPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"invalid DSN", "some=random", "postgres"},
		{"unreachable host", "postgres://user:pw@127.0.0.1:1/db?sslmode=disable&connect_timeout=1", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OpenPostgres(context.Background(), tc.dsn)
			if err == nil {
				t.Fatalf("OpenPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("OpenPostgres(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}
