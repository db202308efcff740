// Package handler provides HTTP handlers for all API endpoints. Handlers
// are a thin layer over the notification store and the intake port; they
// hold no state of their own.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/finchmedia/notifier/internal/api/respond"
	"github.com/finchmedia/notifier/internal/notifications"
)

// Store is the read/write surface the handlers need. Satisfied by
// *notifications.Store.
type Store interface {
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]notifications.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkDelivered(ctx context.Context, id uuid.UUID) error
}

// EventSink is the inbound port add-events are pushed through. Satisfied by
// *notifications.Intake.
type EventSink interface {
	ItemAdded(itemID uuid.UUID)
}

// Pinger verifies database connectivity for the health endpoint.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store  Store
	events EventSink
	db     Pinger
}

// New creates a Handler with shared dependencies.
func New(store Store, events EventSink, db Pinger) *Handler {
	return &Handler{store: store, events: events, db: db}
}

// --------------------------------------------------------------------------
// Authenticated-user context plumbing (written by the auth middleware)
// --------------------------------------------------------------------------

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID extracts the authenticated caller's user id. The zero UUID means
// the request was not authenticated.
func UserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}

// --------------------------------------------------------------------------
// Meta endpoints
// --------------------------------------------------------------------------

// Root serves API info at /.
// @Summary API root info
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"name":    "Media Notification API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"database": "connected",
	})
}
