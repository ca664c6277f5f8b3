package collab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

// AcquireLock reserves termID for the caller. It never waits: if any unexpired
// lock exists, the caller's own included, the call fails with *domain.LockedError.
func (s *Service) AcquireLock(ctx context.Context, termID string) (domain.EditLock, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.EditLock{}, domain.ErrUnauthorized
	}
	if strings.TrimSpace(termID) == "" {
		return domain.EditLock{}, domain.NewValidationError("term_id", "required")
	}

	lock, err := s.locks.Acquire(termID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyLocked) {
			s.metrics.LockContention()
		}
		return domain.EditLock{}, err
	}

	s.log.InfoContext(ctx, "lock acquired",
		slog.String("user_id", userID),
		slog.String("term_id", termID),
		slog.Time("expires_at", lock.ExpiresAt),
	)
	return lock, nil
}

// ReleaseLock drops the caller's lock. Releasing a lock you do not hold, or
// one that already expired, returns ErrLockNotOwned.
func (s *Service) ReleaseLock(ctx context.Context, termID string) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !s.locks.Release(termID, userID) {
		return fmt.Errorf("release %q: %w", termID, domain.ErrLockNotOwned)
	}

	s.log.InfoContext(ctx, "lock released",
		slog.String("user_id", userID),
		slog.String("term_id", termID),
	)
	return nil
}

// LockHolder returns the unexpired lock on termID.
func (s *Service) LockHolder(_ context.Context, termID string) (domain.EditLock, error) {
	lock, ok := s.locks.Holder(termID)
	if !ok {
		return domain.EditLock{}, fmt.Errorf("lock %q: %w", termID, domain.ErrNotFound)
	}
	return lock, nil
}

// ActiveLocks lists every unexpired lock.
func (s *Service) ActiveLocks(_ context.Context) []domain.EditLock {
	return s.locks.Active()
}
