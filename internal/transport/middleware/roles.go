package middleware

import (
	"context"
	"slices"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

// RequireRole returns domain.ErrUnauthorized for anonymous callers and
// domain.ErrForbidden when the token's role is not one of allowed.
// Use in REST handlers, not as HTTP middleware.
func RequireRole(ctx context.Context, allowed ...domain.CollaboratorRole) error {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	role := domain.CollaboratorRole(ctxutil.UserRoleFromCtx(ctx))
	if !slices.Contains(allowed, role) {
		return domain.ErrForbidden
	}
	return nil
}
