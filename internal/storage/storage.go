// Package storage provides the durable key/value media the account
// repository writes its collection to.
//
// A Medium stores opaque string values under string keys. Drivers:
//
//   - file: one JSON object file, written atomically (default)
//   - memory: process-local map
//   - postgres: table kv(key, value) through lib/pq
//   - sqlite: table kv(key, value) through modernc.org/sqlite
//   - s3: one object per key in a bucket
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Medium is a key/value blob store.
type Medium interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; err is reserved for I/O failures.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Backend is a Medium that holds resources to release.
type Backend interface {
	Medium
	io.Closer
}

// Driver names accepted by Open.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverS3       = "s3"
)

// DefaultFilePath is used by the file driver when no path is configured.
const DefaultFilePath = "storage.json"

// ErrUnknownDriver is returned by Open for unsupported driver names.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Config selects and parameterizes a storage driver.
type Config struct {
	// Driver is one of the Driver* constants; empty means file.
	Driver string
	// Path is the file path for the file and sqlite drivers.
	Path string
	// DSN is the postgres connection string.
	DSN string
	// S3 holds the s3 driver settings.
	S3 S3Config
}

// Open constructs the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Driver {
	case "", DriverFile:
		path := cfg.Path
		if path == "" {
			path = DefaultFilePath
		}
		return NewFileMedium(path), nil
	case DriverMemory:
		return NewMemoryMedium(), nil
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case DriverS3:
		return NewS3Medium(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
