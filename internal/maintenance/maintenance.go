// Package maintenance runs periodic background tasks as Go tickers. The
// service is already persistent and long-running, so scheduled work is
// driven from Go rather than from the database.
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes expired notification rows. Satisfied by the notification
// store.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PurgeInterval time.Duration // expired notification rows
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{PurgeInterval: 30 * time.Minute}
}

// Start launches the configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
//
// The purge sweep is belt-and-braces: the read path already filters expired
// rows, the sweep reclaims their storage. Running it concurrently with
// reads and writes is safe because the delete is a single statement.
func Start(ctx context.Context, store Purger, cfg Config, logger *slog.Logger) {
	if cfg.PurgeInterval <= 0 {
		logger.Info("Maintenance disabled (no purge interval)")
		return
	}

	logger.Info("Maintenance ticker started", "purge_interval", cfg.PurgeInterval)
	ticker := time.NewTicker(cfg.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			purge(ctx, store, logger)
		case <-ctx.Done():
			logger.Info("Maintenance ticker stopped")
			return
		}
	}
}

func purge(ctx context.Context, store Purger, logger *slog.Logger) {
	count, err := store.PurgeExpired(ctx)
	if err != nil {
		logger.Warn("Purge: failed to delete expired notifications", "error", err)
		return
	}
	if count > 0 {
		logger.Info("Purge: deleted expired notifications", "count", count)
	}
}
