package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/finchmedia/notifier/internal/api/respond"
)

// itemAddedEvent is the webhook payload from the host catalog.
type itemAddedEvent struct {
	ItemID uuid.UUID `json:"itemId"`
}

// ItemAdded accepts an "item added" signal from the host catalog and hands
// it to the intake pipeline. Processing is asynchronous; the 202 only
// acknowledges receipt.
// @Summary Catalog item-added webhook
// @Description Inbound port for the host catalog. Guarded by a shared webhook token, not user auth.
// @Tags events
// @Accept json
// @Param event body handler.itemAddedEvent true "Added item"
// @Success 202
// @Failure 400 {object} respond.ErrorResponse
// @Router /internal/events/item-added [post]
func (h *Handler) ItemAdded(w http.ResponseWriter, r *http.Request) {
	var event itemAddedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.ItemID == uuid.Nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_EVENT", "Body must carry an itemId UUID")
		return
	}

	h.events.ItemAdded(event.ItemID)
	w.WriteHeader(http.StatusAccepted)
}
