package glossary

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

// Merge folds an independently edited dictionary into the live one.
// Newer terms win, missing terms are added, equal timestamps with different
// content are reported as conflicts and left untouched. The merge is refused
// with a *domain.LockedError when a term it would write is locked by someone else.
func (s *Service) Merge(ctx context.Context, other map[string]domain.TechnicalTerm) (domain.MergeReport, error) {
	author, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.MergeReport{}, domain.ErrUnauthorized
	}

	now := s.clock.Now().UTC()
	report, diff, err := s.index.Merge(other, now, s.lockGuard(author))
	if err != nil {
		return domain.MergeReport{}, err
	}
	changes := s.record(author, now, diff)
	if s.sync != nil {
		s.sync.MarkSynced(now)
	}

	var persistErr error
	var rev uint64
	if len(changes) > 0 {
		rev, persistErr = s.persist(ctx, OpMerge)
		s.notify(ctx, domain.ChangeEvent{Op: OpMerge, Author: author, Revision: rev, Changes: changes, At: now})
	}
	s.metrics.ObserveMutation(OpMerge, string(domain.OutcomeApplied))
	s.log.InfoContext(ctx, "dictionary merged",
		slog.String("user_id", author),
		slog.Int("added", len(report.Added)),
		slog.Int("updated", len(report.Updated)),
		slog.Int("conflicting", len(report.Conflicting)),
		slog.Uint64("revision", rev),
	)
	return report, persistErr
}

// Import replaces the whole term set. Every difference is recorded in the ledger.
func (s *Service) Import(ctx context.Context, terms map[string]domain.TechnicalTerm) (domain.MergeReport, error) {
	return s.ReplaceAll(ctx, terms, OpImport)
}

// ReplaceAll swaps the live term set for terms and returns what changed.
// Incoming LastUpdated values are kept. Like Merge, it is refused when a term
// it would change is locked by someone else.
func (s *Service) ReplaceAll(ctx context.Context, terms map[string]domain.TechnicalTerm, op string) (domain.MergeReport, error) {
	author, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.MergeReport{}, domain.ErrUnauthorized
	}

	now := s.clock.Now().UTC()
	report, diff, err := s.index.Swap(terms, now, s.lockGuard(author))
	if err != nil {
		return domain.MergeReport{}, err
	}
	changes := s.record(author, now, diff)

	rev, persistErr := s.persist(ctx, op)
	s.metrics.ObserveMutation(op, string(domain.OutcomeApplied))
	s.log.InfoContext(ctx, "term set replaced",
		slog.String("op", op),
		slog.String("user_id", author),
		slog.Int("terms", s.index.Len()),
		slog.Int("changes", len(changes)),
		slog.Uint64("revision", rev),
	)
	s.notify(ctx, domain.ChangeEvent{Op: op, Author: author, Revision: rev, Changes: changes, At: now})
	return report, persistErr
}

// lockGuard runs inside the index write lock; it must not call back into the index.
func (s *Service) lockGuard(author string) func(ids ...string) error {
	return func(ids ...string) error {
		return s.checkLock(author, ids...)
	}
}
