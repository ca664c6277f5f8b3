package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/internal/service/version"
	"github.com/heartmarshall/glossary-backend/internal/transport/middleware"
)

type versionService interface {
	CreateVersion(ctx context.Context, input version.CreateVersionInput) (domain.DictionaryVersion, error)
	ListVersions(ctx context.Context) []domain.DictionaryVersion
	GetVersion(ctx context.Context, id string) (domain.DictionaryVersion, error)
	CompareVersions(ctx context.Context, from, to string) (domain.MergeReport, error)
	Restore(ctx context.Context, id string) (domain.MergeReport, error)
}

// VersionHandler serves dictionary snapshots.
type VersionHandler struct {
	svc versionService
	log *slog.Logger
}

// NewVersionHandler creates a VersionHandler.
func NewVersionHandler(svc versionService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{svc: svc, log: logger.With("handler", "versions")}
}

// versionSummary is a version without its term set.
type versionSummary struct {
	ID          string    `json:"version_id"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	Description string    `json:"description"`
	TermCount   int       `json:"term_count"`
}

// List returns version summaries, newest first.
func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	versions := h.svc.ListVersions(r.Context())
	out := make([]versionSummary, 0, len(versions))
	for _, v := range versions {
		out = append(out, versionSummary{
			ID:          v.ID,
			CreatedAt:   v.CreatedAt,
			CreatedBy:   v.CreatedBy,
			Description: v.Description,
			TermCount:   len(v.Terms),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type createVersionRequest struct {
	ID          string `json:"version_id"`
	Description string `json:"description"`
}

func (h *VersionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVersionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.svc.CreateVersion(r.Context(), version.CreateVersionInput{ID: req.ID, Description: req.Description})
	if err != nil {
		writeServiceError(w, r, h.log, err, v)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VersionHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetVersion(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Compare diffs two versions: ?from=&to=.
func (h *VersionHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	var errs []domain.FieldError
	if from == "" {
		errs = append(errs, domain.FieldError{Field: "from", Message: "required"})
	}
	if to == "" {
		errs = append(errs, domain.FieldError{Field: "to", Message: "required"})
	}
	if len(errs) > 0 {
		writeServiceError(w, r, h.log, domain.NewValidationErrors(errs), nil)
		return
	}

	report, err := h.svc.CompareVersions(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Restore replaces the live term set with a version snapshot. Admins and editors only.
func (h *VersionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleAdmin, domain.RoleEditor); err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	report, err := h.svc.Restore(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
