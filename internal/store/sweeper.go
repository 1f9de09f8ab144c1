package store

import (
	"context"
	"log/slog"
	"time"
)

// StartSweeper runs a background goroutine that periodically prunes
// ledger rows older than the retention window. It stops when ctx is
// cancelled.
func StartSweeper(ctx context.Context, ledger Ledger, retention, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Ledger sweeper started", "interval", interval, "retention", retention)

		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				deleted, err := ledger.PruneBefore(ctx, cutoff)
				if err != nil {
					slog.Error("Ledger sweep failed", "error", err)
					continue
				}
				if deleted > 0 {
					slog.Info("Ledger sweep completed", "deleted", deleted)
				}
			case <-ctx.Done():
				slog.Info("Ledger sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
