package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Dirty reports whether the last write to the medium failed and the stored
// collection is behind the in-memory one.
func (r *AccountRepository) Dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

// Flush rewrites the collection when an earlier persist failed. It returns
// true when the medium is in sync afterwards.
func (r *AccountRepository) Flush(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty {
		return true
	}
	if !r.persistLocked(ctx) {
		return false
	}
	r.log.Info("pending accounts flushed", zap.Int("count", len(r.accounts)))
	return true
}

// StartFlusher retries failed writes every interval until ctx is done.
func (r *AccountRepository) StartFlusher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Flush(ctx)
			}
		}
	}()
}
