package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/internal/service/review"
)

type reviewService interface {
	CreateReview(ctx context.Context, input review.CreateReviewInput) (domain.ReviewRequest, error)
	AddComment(ctx context.Context, input review.AddCommentInput) (domain.ReviewRequest, error)
	SetStatus(ctx context.Context, input review.SetStatusInput) (domain.ReviewRequest, error)
	GetReview(ctx context.Context, id string) (domain.ReviewRequest, error)
	PendingReviews(ctx context.Context, reviewer string) ([]domain.ReviewRequest, error)
	ReviewsForTerm(ctx context.Context, termID string) []domain.ReviewRequest
	ResolveConflict(ctx context.Context, input review.ResolveConflictInput) (domain.ConflictResolutionRecord, error)
	Resolutions(ctx context.Context, termID string) []domain.ConflictResolutionRecord
}

// ReviewHandler serves review threads and conflict resolutions.
type ReviewHandler struct {
	svc reviewService
	log *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(svc reviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: logger.With("handler", "reviews")}
}

type createReviewRequest struct {
	TermID    string   `json:"term_id"`
	Reviewers []string `json:"reviewers"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rr, err := h.svc.CreateReview(r.Context(), review.CreateReviewInput{TermID: req.TermID, Reviewers: req.Reviewers})
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, rr)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	rr, err := h.svc.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, rr)
}

// Pending lists open reviews for ?reviewer=, or for the caller.
func (h *ReviewHandler) Pending(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.PendingReviews(r.Context(), r.URL.Query().Get("reviewer"))
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(list))
}

func (h *ReviewHandler) ForTerm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNilSlice(h.svc.ReviewsForTerm(r.Context(), r.PathValue("id"))))
}

type commentRequest struct {
	Text  string  `json:"text"`
	Field *string `json:"field"`
}

func (h *ReviewHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rr, err := h.svc.AddComment(r.Context(), review.AddCommentInput{
		RequestID: r.PathValue("id"),
		Text:      req.Text,
		Field:     req.Field,
	})
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, rr)
}

type statusRequest struct {
	Status domain.ReviewStatus `json:"status"`
}

func (h *ReviewHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rr, err := h.svc.SetStatus(r.Context(), review.SetStatusInput{RequestID: r.PathValue("id"), Status: req.Status})
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, rr)
}

type resolveRequest struct {
	TermID   string                `json:"term_id"`
	Kind     domain.ResolutionKind `json:"kind"`
	Comments string                `json:"comments"`
}

func (h *ReviewHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.svc.ResolveConflict(r.Context(), review.ResolveConflictInput{
		TermID:   req.TermID,
		Kind:     req.Kind,
		Comments: req.Comments,
	})
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Resolutions lists resolution records, optionally for ?term=.
func (h *ReviewHandler) Resolutions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNilSlice(h.svc.Resolutions(r.Context(), r.URL.Query().Get("term"))))
}
