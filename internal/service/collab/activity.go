package collab

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

// Register creates or updates the caller's collaborator record.
// An empty name keeps the current one; an empty role keeps the current role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.CollaboratorInfo, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.CollaboratorInfo{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.CollaboratorInfo{}, err
	}

	info := s.activity.Register(userID, input.Name, input.Role)
	s.log.InfoContext(ctx, "collaborator registered",
		slog.String("user_id", userID),
		slog.String("role", info.Role.String()),
	)
	return info, nil
}

// RecordActivity logs what the caller is doing and makes it their current activity.
func (s *Service) RecordActivity(ctx context.Context, input RecordActivityInput) (domain.CollaboratorActivity, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.CollaboratorActivity{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.CollaboratorActivity{}, err
	}

	a := s.activity.RecordActivity(domain.CollaboratorActivity{
		UserID:        userID,
		Kind:          input.Kind,
		TermID:        input.TermID,
		Status:        input.Status,
		FailureReason: input.FailureReason,
	})
	s.log.DebugContext(ctx, "activity recorded",
		slog.String("user_id", userID),
		slog.String("kind", a.Kind.String()),
		slog.String("status", a.Status.String()),
	)
	return a, nil
}

// ActiveCollaborators lists collaborators seen within the active window.
func (s *Service) ActiveCollaborators(_ context.Context) []domain.CollaboratorInfo {
	return s.activity.Active(s.cfg.ActiveWindow)
}

// Collaborator returns one collaborator with their recent changes.
func (s *Service) Collaborator(_ context.Context, userID string) (domain.CollaboratorInfo, error) {
	info, ok := s.activity.Collaborator(userID)
	if !ok {
		return domain.CollaboratorInfo{}, fmt.Errorf("collaborator %q: %w", userID, domain.ErrNotFound)
	}
	return info, nil
}

// ActivityLog returns the global activity log newest first, optionally for one user.
func (s *Service) ActivityLog(_ context.Context, userID string) []domain.CollaboratorActivity {
	return s.activity.ActivityLog(userID)
}

// DetectConflicts flags every locked term, expired locks included, that more
// than one EDITING activity targeted within the conflict window.
func (s *Service) DetectConflicts(ctx context.Context) []domain.EditConflict {
	now := s.clock.Now()
	since := now.Add(-s.cfg.ConflictWindow)

	var out []domain.EditConflict
	for _, lock := range s.locks.All() {
		recent := s.activity.Recent(lock.TermID, domain.ActivityEditing, since)
		if len(recent) <= 1 {
			continue
		}
		out = append(out, domain.EditConflict{
			Lock:        lock,
			EditCount:   len(recent),
			Editors:     editors(recent),
			LockExpired: lock.ExpiredAt(now),
		})
	}

	if len(out) > 0 {
		s.log.InfoContext(ctx, "edit conflicts detected", slog.Int("count", len(out)))
	}
	return out
}

func editors(acts []domain.CollaboratorActivity) []string {
	seen := make(map[string]struct{}, len(acts))
	out := make([]string, 0, len(acts))
	for _, a := range acts {
		if _, ok := seen[a.UserID]; ok {
			continue
		}
		seen[a.UserID] = struct{}{}
		out = append(out, a.UserID)
	}
	sort.Strings(out)
	return out
}
