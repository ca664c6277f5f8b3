package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 500
)

type changeFeed interface {
	Recent(ctx context.Context, n int) ([]domain.ChangeEvent, error)
}

// ChangeHandler serves the recent entries of the change feed.
type ChangeHandler struct {
	feed changeFeed
	log  *slog.Logger
}

// NewChangeHandler creates a ChangeHandler.
func NewChangeHandler(feed changeFeed, logger *slog.Logger) *ChangeHandler {
	return &ChangeHandler{feed: feed, log: logger.With("handler", "changes")}
}

// Recent returns up to ?limit= events, newest first.
func (h *ChangeHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeServiceError(w, r, h.log, domain.NewValidationError("limit", "must be a positive integer"), nil)
			return
		}
		limit = min(n, maxFeedLimit)
	}

	events, err := h.feed.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(events))
}
