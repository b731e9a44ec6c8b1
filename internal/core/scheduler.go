package core

// scheduler.go provides background maintenance of the upload store.
//
// The janitor runs periodically to drop uploads whose TTL has passed and to
// enforce the entry limit. It is long-running and stops when its context is
// cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultCleanupInterval is used when StartStoreJanitor gets a non-positive interval.
const DefaultCleanupInterval = time.Minute

// StartStoreJanitor evicts expired uploads every interval until ctx is done.
// Run it in its own goroutine.
func (s *Service) StartStoreJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	slog.Info("store janitor started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("store janitor stopped")
			return
		case <-ticker.C:
			s.runStoreSweep()
		}
	}
}

// runStoreSweep performs one eviction pass.
func (s *Service) runStoreSweep() {
	start := time.Now()
	removed := s.store.Sweep()
	if removed == 0 {
		return
	}
	slog.Info("evicted expired uploads",
		"removed", removed,
		"remaining", s.store.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
