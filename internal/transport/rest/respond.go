package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

const maxBodyBytes = 8 << 20

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error   string              `json:"error"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
	Holder  string              `json:"holder,omitempty"`
	Payload any                 `json:"payload,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service errors to HTTP statuses. A persistence error
// means the change was applied in memory, so payload is still returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, payload any) {
	var (
		verr   *domain.ValidationError
		locked *domain.LockedError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation error", Fields: verr.Errors})
	case errors.As(err, &locked):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Holder: locked.Holder})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyLocked):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrLockNotOwned):
		writeError(w, http.StatusConflict, "lock not owned")
	case errors.Is(err, domain.ErrDuplicateVersion):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPersistence):
		log.ErrorContext(r.Context(), "change applied but not persisted", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "change applied but not persisted", Payload: payload})
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
