package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by targeted operations when no row has the id.
var ErrNotFound = errors.New("notification not found")

// Querier is the subset of pgxpool.Pool the store needs. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists notifications in Postgres. All statements are registered
// by name in internal/db and referenced here via prepared-statement names.
type Store struct {
	db     Querier
	logger *slog.Logger
}

// NewStore creates a Store over the given connection pool.
func NewStore(db Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Create inserts a new notification row. The id must be unique; a duplicate
// or an unreachable store surfaces as an error.
func (s *Store) Create(ctx context.Context, n *Notification) error {
	_, err := s.db.Exec(ctx, "insert_notification",
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.ItemID,
		n.CreatedAt, n.ExpiresAt, n.DeliveredAt, n.ReadAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	return nil
}

// ListForUser returns the user's non-expired notifications, newest first,
// capped at the page size. With unreadOnly, rows with a read timestamp are
// filtered out.
func (s *Store) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error) {
	stmt := "list_notifications"
	if unreadOnly {
		stmt = "list_unread_notifications"
	}

	rows, err := s.db.Query(ctx, stmt, userID, time.Now().UTC(), pageSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.ItemID,
			&n.CreatedAt, &n.ExpiresAt, &n.DeliveredAt, &n.ReadAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// CountUnread returns the number of unread, non-expired notifications.
func (s *Store) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, "count_unread_notifications", userID, time.Now().UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead stamps the read timestamp if it is not already set. Re-marking a
// read notification is a no-op; an unknown id returns ErrNotFound.
func (s *Store) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.stamp(ctx, "mark_notification_read", id)
}

// MarkDelivered stamps the delivery timestamp, with the same semantics as
// MarkRead.
func (s *Store) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	return s.stamp(ctx, "mark_notification_delivered", id)
}

func (s *Store) stamp(ctx context.Context, stmt string, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, stmt, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s %s: %w", stmt, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpired deletes every row past its expiry and returns the count
// removed. A single "now" is read per call, so rows at the boundary are
// treated consistently within one sweep. Safe to call concurrently.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "purge_expired_notifications", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}
