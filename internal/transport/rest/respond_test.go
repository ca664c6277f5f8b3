package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

func TestWriteServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.NewValidationError("hebrew", "required"), http.StatusBadRequest},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"wrapped not found", fmt.Errorf("term %q: %w", "x", domain.ErrNotFound), http.StatusNotFound},
		{"locked", &domain.LockedError{TermID: "x", Holder: "rina", ExpiresAt: epoch}, http.StatusConflict},
		{"lock not owned", fmt.Errorf("release: %w", domain.ErrLockNotOwned), http.StatusConflict},
		{"duplicate version", domain.ErrDuplicateVersion, http.StatusConflict},
		{"persistence", &domain.PersistenceError{Op: "add", Err: errors.New("disk full")}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			writeServiceError(rec, req, slog.New(slog.DiscardHandler), tt.err, nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteServiceError_Details(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)

	t.Run("validation fields", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		err := domain.NewValidationErrors([]domain.FieldError{
			{Field: "hebrew", Message: "required"},
			{Field: "russian", Message: "required"},
		})
		writeServiceError(rec, httptest.NewRequest(http.MethodPost, "/terms", nil), logger, err, nil)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []domain.FieldError{{Field: "hebrew", Message: "required"}, {Field: "russian", Message: "required"}}, resp.Fields)
	})

	t.Run("lock holder", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		err := &domain.LockedError{TermID: "ברז", Holder: "rina", ExpiresAt: epoch.Add(30 * time.Minute)}
		writeServiceError(rec, httptest.NewRequest(http.MethodPut, "/terms/x", nil), logger, err, nil)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "rina", resp.Holder)
	})

	t.Run("persistence keeps payload", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		err := &domain.PersistenceError{Op: "add", Err: errors.New("disk full")}
		stored := domain.TechnicalTerm{Hebrew: "ברז", Russian: "кран"}
		writeServiceError(rec, httptest.NewRequest(http.MethodPost, "/terms", nil), logger, err, stored)

		var resp struct {
			Error   string               `json:"error"`
			Payload domain.TechnicalTerm `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ברז", resp.Payload.Hebrew)
	})
}
