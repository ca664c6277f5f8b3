package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/heartmarshall/glossary-backend/internal/auth"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

//go:generate moq -out token_validator_mock_test.go -pkg middleware . tokenValidator

func TestAuth_ValidToken(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
			if token == "valid-token" {
				return auth.Identity{UserID: "dana", Name: "Dana Levi", Role: "EDITOR"}, nil
			}
			return auth.Identity{}, errors.New("invalid token")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, ok := ctxutil.UserIDFromCtx(r.Context())
		if !ok {
			t.Error("expected userID in context")
			return
		}
		if gotUserID != "dana" {
			t.Errorf("expected userID dana, got %v", gotUserID)
		}
		if name := ctxutil.UserNameFromCtx(r.Context()); name != "Dana Levi" {
			t.Errorf("expected name in context, got %q", name)
		}
		if role := ctxutil.UserRoleFromCtx(r.Context()); role != "EDITOR" {
			t.Errorf("expected role EDITOR, got %q", role)
		}
		w.WriteHeader(http.StatusOK)
	})

	wrappedHandler := Auth(validator)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
			return auth.Identity{}, errors.New("invalid token")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for invalid token")
	})

	wrappedHandler := Auth(validator)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rec := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuth_AnonymousRequests(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			validator := &tokenValidatorMock{
				ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
					t.Error("ValidateAccessToken should not be called")
					return auth.Identity{}, errors.New("should not be called")
				},
			}

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
					t.Error("expected no userID in context for anonymous request")
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			Auth(validator)(handler).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
			}
			if len(validator.ValidateAccessTokenCalls()) > 0 {
				t.Error("ValidateAccessToken should not be called for anonymous request")
			}
		})
	}
}

func TestExtractBearerToken_Cases(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer with token", "Bearer valid-token", "valid-token"},
		{"bearer lowercase", "bearer valid-token", "valid-token"},
		{"bearer mixed case", "BEARER valid-token", "valid-token"},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
		{"bearer no space", "Bearertoken", ""},
		{"bearer empty token", "Bearer ", ""},
		{"just bearer", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got := extractBearerToken(req)
			if got != tc.want {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}

func TestAuth_WithJWTManager(t *testing.T) {
	manager := auth.NewJWTManager("test-secret-at-least-32-chars-long-for-security", "glossary", time.Hour)
	token, err := manager.GenerateAccessToken(auth.Identity{UserID: "omer", Role: "REVIEWER"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ctxutil.UserIDFromCtx(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/terms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	Auth(manager)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if got != "omer" {
		t.Errorf("expected omer in context, got %q", got)
	}
}
