package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/finchmedia/notifier/internal/api/respond"
	"github.com/finchmedia/notifier/internal/notifications"
)

// ListNotifications returns the caller's non-expired notifications, newest
// first, capped at one page.
// @Summary List notifications
// @Description Returns the authenticated user's active notifications, newest first.
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only return unread notifications"
// @Success 200 {array} notifications.Notification
// @Failure 401 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /notifications [get]
// @Security BearerAuth
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == uuid.Nil {
		respond.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "No authenticated user")
		return
	}

	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unreadOnly"))

	list, err := h.store.ListForUser(r.Context(), userID, unreadOnly)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Error retrieving notifications")
		return
	}
	if list == nil {
		list = []notifications.Notification{}
	}
	respond.WriteJSON(w, http.StatusOK, list)
}

// UnreadCount returns the caller's unread notification count.
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 401 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /notifications/unread/count [get]
// @Security BearerAuth
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == uuid.Nil {
		respond.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "No authenticated user")
		return
	}

	count, err := h.store.CountUnread(r.Context(), userID)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Error counting notifications")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

// MarkRead marks a notification as read. The notification id alone is the
// key; marking is idempotent.
// @Summary Mark notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /notifications/{id}/read [post]
// @Security BearerAuth
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.stamp(w, r, h.store.MarkRead)
}

// MarkDelivered marks a notification as delivered to a client surface.
// Delivery state is independent of read state.
// @Summary Mark notification as delivered
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /notifications/{id}/delivered [post]
// @Security BearerAuth
func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	h.stamp(w, r, h.store.MarkDelivered)
}

func (h *Handler) stamp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Notification id must be a UUID")
		return
	}

	if err := op(r.Context(), id); err != nil {
		if errors.Is(err, notifications.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No such notification")
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Error updating notification")
		return
	}
	respond.WriteNoContent(w)
}
