package session

import (
	"context"
	"log/slog"
	"time"
)

const minSweepInterval = time.Second

// StartSweeper runs a background goroutine that periodically evicts sessions
// idle for longer than ttl. It does nothing when ttl is zero.
func StartSweeper(ctx context.Context, store *Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "idle_ttl", ttl)

		for {
			select {
			case <-ticker.C:
				if evicted := store.EvictIdle(ttl); len(evicted) > 0 {
					slog.Info("Session sweeper evicted idle sessions", "count", len(evicted))
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
