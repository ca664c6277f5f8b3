package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/glossary-backend/internal/auth"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

// Auth puts the bearer token's collaborator into the request context.
// Requests without a token pass through anonymously; services reject anonymous writes.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			id, err := validator.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), id.UserID)
			if id.Name != "" {
				ctx = ctxutil.WithUserName(ctx, id.Name)
			}
			if id.Role != "" {
				ctx = ctxutil.WithUserRole(ctx, id.Role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
