package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lostprophetsco/saasoft-tz/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// switchMedium fails writes until it is told to recover.
type switchMedium struct {
	storage.Medium

	mu   sync.Mutex
	down bool
}

func (s *switchMedium) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	down := s.down
	s.mu.Unlock()
	if down {
		return errors.New("medium unavailable")
	}
	return s.Medium.Set(ctx, key, value)
}

func (s *switchMedium) setDown(down bool) {
	s.mu.Lock()
	s.down = down
	s.mu.Unlock()
}

func TestFlush_CleanIsNoop(t *testing.T) {
	r, m := newRepo(t)
	ctx := context.Background()

	assert.True(t, r.Flush(ctx))
	_, ok, err := m.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "nothing to flush, nothing written")
}

func TestFlush_RetriesAfterFailure(t *testing.T) {
	inner := storage.NewMemoryMedium()
	medium := &switchMedium{Medium: inner, down: true}
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewAccountRepository(medium, zap.New(core))
	ctx := context.Background()

	r.Add(ctx, ldap("bob"))
	assert.True(t, r.Dirty())
	assert.False(t, r.Flush(ctx), "medium still down")
	assert.True(t, r.Dirty())

	medium.setDown(false)
	assert.True(t, r.Flush(ctx))
	assert.False(t, r.Dirty())
	assertWriteThrough(t, r, inner)
	assert.Equal(t, 1, logs.FilterMessage("pending accounts flushed").Len())
}

func TestPersist_ClearsDirty(t *testing.T) {
	inner := storage.NewMemoryMedium()
	medium := &switchMedium{Medium: inner, down: true}
	r := NewAccountRepository(medium, zap.NewNop())
	ctx := context.Background()

	r.Add(ctx, ldap("bob"))
	require.True(t, r.Dirty())

	medium.setDown(false)
	r.Add(ctx, ldap("carol"))
	assert.False(t, r.Dirty(), "a later successful write catches up")
	assertWriteThrough(t, r, inner)
}

func TestStartFlusher(t *testing.T) {
	inner := storage.NewMemoryMedium()
	medium := &switchMedium{Medium: inner, down: true}
	r := NewAccountRepository(medium, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Add(ctx, ldap("bob"))
	r.StartFlusher(ctx, 10*time.Millisecond)
	medium.setDown(false)

	assert.Eventually(t, func() bool { return !r.Dirty() }, time.Second, 10*time.Millisecond)
	assertWriteThrough(t, r, inner)
}
