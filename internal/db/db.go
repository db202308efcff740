// Package db provides a pgxpool-based connection pool with prepared
// statement registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finchmedia/notifier/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers every statement the store uses.
// Prepared statements eliminate parse overhead on the write-heavy fan-out
// path and the poll-based read path.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Write path
		"insert_notification": `
			INSERT INTO notifications (
				id, user_id, type, title, message, item_id,
				created_at, expires_at, delivered_at, read_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,

		// Read path. Expiry is enforced here as well as in the purge sweep,
		// so stale rows are never surfaced between sweeps.
		"list_notifications": `
			SELECT id, user_id, type, title, message, item_id,
			       created_at, expires_at, delivered_at, read_at
			FROM notifications
			WHERE user_id = $1 AND expires_at > $2
			ORDER BY created_at DESC
			LIMIT $3`,
		"list_unread_notifications": `
			SELECT id, user_id, type, title, message, item_id,
			       created_at, expires_at, delivered_at, read_at
			FROM notifications
			WHERE user_id = $1 AND expires_at > $2 AND read_at IS NULL
			ORDER BY created_at DESC
			LIMIT $3`,
		"count_unread_notifications": `
			SELECT count(*)
			FROM notifications
			WHERE user_id = $1 AND expires_at > $2 AND read_at IS NULL`,

		// Timestamp stamping. COALESCE keeps re-marking idempotent: the row
		// still matches, but an existing timestamp is never overwritten.
		"mark_notification_read": `
			UPDATE notifications
			SET read_at = COALESCE(read_at, $2)
			WHERE id = $1`,
		"mark_notification_delivered": `
			UPDATE notifications
			SET delivered_at = COALESCE(delivered_at, $2)
			WHERE id = $1`,

		// Expiry sweep
		"purge_expired_notifications": `
			DELETE FROM notifications WHERE expires_at <= $1`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
