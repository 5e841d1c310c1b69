package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/simmr/simmr/internal/events"
	"github.com/simmr/simmr/internal/handler/dto"
)

// EventReader lists persisted market events.
type EventReader interface {
	Recent(ctx context.Context, limit int) ([]events.StoredEvent, error)
}

// EventsHandler exposes the persisted market event feed.
type EventsHandler struct {
	repo   EventReader
	logger *slog.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(repo EventReader, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		repo:   repo,
		logger: logger,
	}
}

// Recent handles GET /api/v1/events.
func (h *EventsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "EVENTS_UNAVAILABLE", "Event feed is not configured")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	stored, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("event_feed_query_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(stored))
}
