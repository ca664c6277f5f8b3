package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	withRole := func(role string) context.Context {
		ctx := ctxutil.WithUserID(context.Background(), "dana")
		if role != "" {
			ctx = ctxutil.WithUserRole(ctx, role)
		}
		return ctx
	}

	tests := []struct {
		name string
		ctx  context.Context
		want error
	}{
		{"anonymous", context.Background(), domain.ErrUnauthorized},
		{"no role claim", withRole(""), domain.ErrForbidden},
		{"viewer", withRole("VIEWER"), domain.ErrForbidden},
		{"editor", withRole("EDITOR"), nil},
		{"admin", withRole("ADMIN"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := RequireRole(tt.ctx, domain.RoleEditor, domain.RoleAdmin)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("RequireRole() = %v, want %v", err, tt.want)
			}
		})
	}
}
