package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/internal/service/collab"
)

type collabService interface {
	AcquireLock(ctx context.Context, termID string) (domain.EditLock, error)
	ReleaseLock(ctx context.Context, termID string) error
	LockHolder(ctx context.Context, termID string) (domain.EditLock, error)
	ActiveLocks(ctx context.Context) []domain.EditLock
	DetectConflicts(ctx context.Context) []domain.EditConflict

	Register(ctx context.Context, input collab.RegisterInput) (domain.CollaboratorInfo, error)
	RecordActivity(ctx context.Context, input collab.RecordActivityInput) (domain.CollaboratorActivity, error)
	ActiveCollaborators(ctx context.Context) []domain.CollaboratorInfo
	Collaborator(ctx context.Context, userID string) (domain.CollaboratorInfo, error)
	ActivityLog(ctx context.Context, userID string) []domain.CollaboratorActivity
	LastSync() (time.Time, bool)
}

// CollabHandler serves edit locks, presence and conflict detection.
type CollabHandler struct {
	svc collabService
	log *slog.Logger
}

// NewCollabHandler creates a CollabHandler.
func NewCollabHandler(svc collabService, logger *slog.Logger) *CollabHandler {
	return &CollabHandler{svc: svc, log: logger.With("handler", "collab")}
}

func (h *CollabHandler) AcquireLock(w http.ResponseWriter, r *http.Request) {
	lock, err := h.svc.AcquireLock(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, lock)
}

func (h *CollabHandler) ReleaseLock(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ReleaseLock(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollabHandler) LockHolder(w http.ResponseWriter, r *http.Request) {
	lock, err := h.svc.LockHolder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, lock)
}

func (h *CollabHandler) ActiveLocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNilSlice(h.svc.ActiveLocks(r.Context())))
}

func (h *CollabHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNilSlice(h.svc.DetectConflicts(r.Context())))
}

type registerRequest struct {
	Name string                  `json:"name"`
	Role domain.CollaboratorRole `json:"role"`
}

func (h *CollabHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	info, err := h.svc.Register(r.Context(), collab.RegisterInput{Name: req.Name, Role: req.Role})
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *CollabHandler) ActiveCollaborators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNilSlice(h.svc.ActiveCollaborators(r.Context())))
}

func (h *CollabHandler) Collaborator(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Collaborator(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type activityRequest struct {
	Kind          domain.ActivityKind   `json:"kind"`
	TermID        *string               `json:"term_id"`
	Status        domain.ActivityStatus `json:"status"`
	FailureReason *string               `json:"failure_reason"`
}

func (h *CollabHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.svc.RecordActivity(r.Context(), collab.RecordActivityInput{
		Kind:          req.Kind,
		TermID:        req.TermID,
		Status:        req.Status,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ActivityLog returns the activity log, newest first. ?user= narrows it to one collaborator.
func (h *CollabHandler) ActivityLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNilSlice(h.svc.ActivityLog(r.Context(), r.URL.Query().Get("user"))))
}

type syncResponse struct {
	LastSync *time.Time `json:"last_sync"`
}

func (h *CollabHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	var resp syncResponse
	if at, ok := h.svc.LastSync(); ok {
		resp.LastSync = &at
	}
	writeJSON(w, http.StatusOK, resp)
}
