package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/internal/service/glossary"
	"github.com/heartmarshall/glossary-backend/internal/transport/middleware"
)

type glossaryService interface {
	GetTerm(ctx context.Context, id string) (domain.TechnicalTerm, error)
	ListTerms(ctx context.Context) []domain.TechnicalTerm
	Search(ctx context.Context, q domain.SearchQuery) []domain.TechnicalTerm
	Translate(ctx context.Context, text string, src, dst domain.Language) string
	History(ctx context.Context, id string) (domain.TermChangeHistory, error)
	Facets(ctx context.Context) glossary.Facets
	TermsByCategory(ctx context.Context, category string) []domain.TechnicalTerm
	TermsByContext(ctx context.Context, name string) []domain.TechnicalTerm
	TermsByTag(ctx context.Context, tag string) []domain.TechnicalTerm

	AddTerm(ctx context.Context, input glossary.AddTermInput) (domain.TechnicalTerm, error)
	UpdateTerm(ctx context.Context, input glossary.UpdateTermInput) (glossary.MutationResult, error)
	DeleteTerm(ctx context.Context, input glossary.DeleteTermInput) (glossary.MutationResult, error)
	Merge(ctx context.Context, other map[string]domain.TechnicalTerm) (domain.MergeReport, error)
	Import(ctx context.Context, terms map[string]domain.TechnicalTerm) (domain.MergeReport, error)
	Flush(ctx context.Context) error
}

// TermHandler serves the term index: reads, mutations, translation and bulk merge.
type TermHandler struct {
	svc glossaryService
	log *slog.Logger
}

// NewTermHandler creates a TermHandler.
func NewTermHandler(svc glossaryService, logger *slog.Logger) *TermHandler {
	return &TermHandler{svc: svc, log: logger.With("handler", "terms")}
}

// List returns every term, or the terms of one category, context or tag.
func (h *TermHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var terms []domain.TechnicalTerm
	switch {
	case q.Has("category"):
		terms = h.svc.TermsByCategory(r.Context(), q.Get("category"))
	case q.Has("context"):
		terms = h.svc.TermsByContext(r.Context(), q.Get("context"))
	case q.Has("tag"):
		terms = h.svc.TermsByTag(r.Context(), q.Get("tag"))
	default:
		terms = h.svc.ListTerms(r.Context())
	}
	writeJSON(w, http.StatusOK, nonNilSlice(terms))
}

func (h *TermHandler) Get(w http.ResponseWriter, r *http.Request) {
	term, err := h.svc.GetTerm(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, term)
}

func (h *TermHandler) Add(w http.ResponseWriter, r *http.Request) {
	var term domain.TechnicalTerm
	if err := decodeJSON(w, r, &term); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stored, err := h.svc.AddTerm(r.Context(), glossary.AddTermInput{Term: term})
	if err != nil {
		writeServiceError(w, r, h.log, err, stored)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// Update replaces a term. ?strict=true turns a missing id into 404.
func (h *TermHandler) Update(w http.ResponseWriter, r *http.Request) {
	var term domain.TechnicalTerm
	if err := decodeJSON(w, r, &term); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.UpdateTerm(r.Context(), glossary.UpdateTermInput{
		ID:     r.PathValue("id"),
		Term:   term,
		Strict: queryBool(r, "strict"),
	})
	if err != nil {
		writeServiceError(w, r, h.log, err, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *TermHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.DeleteTerm(r.Context(), glossary.DeleteTermInput{
		ID:     r.PathValue("id"),
		Strict: queryBool(r, "strict"),
	})
	if err != nil {
		writeServiceError(w, r, h.log, err, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *TermHandler) Search(w http.ResponseWriter, r *http.Request) {
	var q domain.SearchQuery
	if err := decodeJSON(w, r, &q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Lang == "" {
		q.Lang = domain.LanguageHebrew
	}
	writeJSON(w, http.StatusOK, nonNilSlice(h.svc.Search(r.Context(), q)))
}

func (h *TermHandler) History(w http.ResponseWriter, r *http.Request) {
	hist, err := h.svc.History(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func (h *TermHandler) Facets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Facets(r.Context()))
}

type translateRequest struct {
	Text       string          `json:"text"`
	SourceLang domain.Language `json:"source_lang"`
	TargetLang domain.Language `json:"target_lang"`
}

type translateResponse struct {
	Text string `json:"text"`
}

func (h *TermHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var errs []domain.FieldError
	if !req.SourceLang.IsValid() {
		errs = append(errs, domain.FieldError{Field: "source_lang", Message: "must be he or ru"})
	}
	if !req.TargetLang.IsValid() {
		errs = append(errs, domain.FieldError{Field: "target_lang", Message: "must be he or ru"})
	}
	if len(errs) > 0 {
		writeServiceError(w, r, h.log, domain.NewValidationErrors(errs), nil)
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{
		Text: h.svc.Translate(r.Context(), req.Text, req.SourceLang, req.TargetLang),
	})
}

// Merge folds a dictionary payload (hebrew -> term) into the live store.
func (h *TermHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var other map[string]domain.TechnicalTerm
	if err := decodeJSON(w, r, &other); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.svc.Merge(r.Context(), other)
	if err != nil {
		writeServiceError(w, r, h.log, err, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Import replaces the whole term set. Admins only.
func (h *TermHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleAdmin); err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	var terms map[string]domain.TechnicalTerm
	if err := decodeJSON(w, r, &terms); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.svc.Import(r.Context(), terms)
	if err != nil {
		writeServiceError(w, r, h.log, err, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Flush retries writing the live term set to disk.
func (h *TermHandler) Flush(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleAdmin, domain.RoleEditor); err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	if err := h.svc.Flush(r.Context()); err != nil {
		writeServiceError(w, r, h.log, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
