package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileMedium keeps all keys in one JSON object file.
//
// The file is read on every Get so that values written by another process
// are seen, and rewritten atomically (temp file, fsync, rename) on Set.
// A missing file behaves as an empty store; a file that is not a JSON
// object makes both Get and Set fail rather than overwrite it.
type FileMedium struct {
	mu   sync.Mutex
	path string
}

// NewFileMedium returns a medium backed by the file at path.
// The file is created on the first Set.
func NewFileMedium(path string) *FileMedium {
	return &FileMedium{path: path}
}

// Path returns the backing file path.
func (m *FileMedium) Path() string {
	return m.path
}

func (m *FileMedium) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	values, err := m.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (m *FileMedium) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	values, err := m.load()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.path, err)
	}
	return writeFileAtomic(m.path, data)
}

// Close is a no-op; the file is not held open between calls.
func (m *FileMedium) Close() error {
	return nil
}

func (m *FileMedium) load() (map[string]string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", m.path, err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.path, err)
	}
	return values, nil
}

// writeFileAtomic replaces path with data using a temp file in the same
// directory, so readers never observe a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		return fail("writing data: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
