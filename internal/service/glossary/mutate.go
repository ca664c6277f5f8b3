package glossary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpMerge   = "merge"
	OpImport  = "import"
	OpRestore = "restore"
)

// AddTerm inserts a term or overwrites the one with the same Hebrew key.
//
// If the write to disk fails the term stays in memory and the stored term is
// returned together with a *domain.PersistenceError.
func (s *Service) AddTerm(ctx context.Context, input AddTermInput) (domain.TechnicalTerm, error) {
	author, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.TechnicalTerm{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.TechnicalTerm{}, err
	}

	term := input.Term.Clone()
	term.Normalize()
	if err := s.checkLock(author, term.Hebrew); err != nil {
		return domain.TechnicalTerm{}, err
	}

	stored, prev := s.index.Add(term)
	changes := s.record(author, stored.LastUpdated, domain.DiffTerms(prev, &stored))

	rev, persistErr := s.persist(ctx, OpAdd)
	s.metrics.ObserveMutation(OpAdd, string(domain.OutcomeApplied))
	s.log.InfoContext(ctx, "term added",
		slog.String("user_id", author),
		slog.String("term_id", stored.Hebrew),
		slog.Bool("overwrite", prev != nil),
		slog.Uint64("revision", rev),
	)
	s.notify(ctx, domain.ChangeEvent{
		Op:       OpAdd,
		TermID:   stored.Hebrew,
		Author:   author,
		Revision: rev,
		Changes:  changes,
		At:       stored.LastUpdated,
	})
	return stored, persistErr
}

// UpdateTerm replaces the term stored under input.ID. An unknown id is a no-op
// reported as OutcomeMissing, or ErrNotFound in strict mode.
func (s *Service) UpdateTerm(ctx context.Context, input UpdateTermInput) (MutationResult, error) {
	author, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return MutationResult{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return MutationResult{}, err
	}

	term := input.Term.Clone()
	term.Normalize()
	if err := s.checkLock(author, input.ID, term.Hebrew); err != nil {
		return MutationResult{}, err
	}

	res, err := s.index.Update(input.ID, term)
	if err != nil {
		return MutationResult{}, err
	}
	if !res.Found {
		return s.missing(ctx, OpUpdate, input.ID, input.Strict)
	}

	var diff []domain.TermChange
	if res.Renamed {
		diff = append(domain.DiffTerms(&res.Previous, nil), domain.DiffTerms(nil, &res.Stored)...)
	} else {
		diff = domain.DiffTerms(&res.Previous, &res.Stored)
	}
	changes := s.record(author, res.Stored.LastUpdated, diff)

	rev, persistErr := s.persist(ctx, OpUpdate)
	s.metrics.ObserveMutation(OpUpdate, string(domain.OutcomeApplied))
	s.log.InfoContext(ctx, "term updated",
		slog.String("user_id", author),
		slog.String("term_id", res.Stored.Hebrew),
		slog.Bool("renamed", res.Renamed),
		slog.Int("changes", len(changes)),
		slog.Uint64("revision", rev),
	)
	s.notify(ctx, domain.ChangeEvent{
		Op:       OpUpdate,
		TermID:   res.Stored.Hebrew,
		Author:   author,
		Revision: rev,
		Changes:  changes,
		At:       res.Stored.LastUpdated,
	})

	stored := res.Stored
	return MutationResult{Outcome: domain.OutcomeApplied, Term: &stored}, persistErr
}

// DeleteTerm removes a term. Its history is kept.
func (s *Service) DeleteTerm(ctx context.Context, input DeleteTermInput) (MutationResult, error) {
	author, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return MutationResult{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return MutationResult{}, err
	}
	if err := s.checkLock(author, input.ID); err != nil {
		return MutationResult{}, err
	}

	removed, ok := s.index.Delete(input.ID)
	if !ok {
		return s.missing(ctx, OpDelete, input.ID, input.Strict)
	}

	now := s.clock.Now().UTC()
	changes := s.record(author, now, domain.DiffTerms(&removed, nil))

	rev, persistErr := s.persist(ctx, OpDelete)
	s.metrics.ObserveMutation(OpDelete, string(domain.OutcomeApplied))
	s.log.InfoContext(ctx, "term deleted",
		slog.String("user_id", author),
		slog.String("term_id", removed.Hebrew),
		slog.Uint64("revision", rev),
	)
	s.notify(ctx, domain.ChangeEvent{
		Op:       OpDelete,
		TermID:   removed.Hebrew,
		Author:   author,
		Revision: rev,
		Changes:  changes,
		At:       now,
	})
	return MutationResult{Outcome: domain.OutcomeApplied, Term: &removed}, persistErr
}

// Flush writes the current term set to disk. Use it to retry after a persistence error.
func (s *Service) Flush(ctx context.Context) error {
	_, err := s.persist(ctx, "flush")
	return err
}

func (s *Service) missing(ctx context.Context, op, id string, strict bool) (MutationResult, error) {
	s.metrics.ObserveMutation(op, string(domain.OutcomeMissing))
	s.log.DebugContext(ctx, "mutation on unknown term",
		slog.String("op", op),
		slog.String("term_id", id),
	)
	if strict {
		return MutationResult{}, fmt.Errorf("term %q: %w", id, domain.ErrNotFound)
	}
	return MutationResult{Outcome: domain.OutcomeMissing}, nil
}

// checkLock refuses the write if any of ids is locked by someone other than author.
func (s *Service) checkLock(author string, ids ...string) error {
	for _, id := range ids {
		if id == "" {
			continue
		}
		lock, held := s.locks.Holder(id)
		if held && lock.Holder != author {
			s.metrics.LockContention()
			return &domain.LockedError{TermID: id, Holder: lock.Holder, ExpiresAt: lock.ExpiresAt}
		}
	}
	return nil
}

// record stamps the diff and appends it to the ledger and the author's activity.
func (s *Service) record(author string, at time.Time, diff []domain.TermChange) []domain.TermChange {
	for i := range diff {
		diff[i].Author = author
		diff[i].Timestamp = at
	}
	s.ledger.Record(diff...)
	for _, c := range diff {
		s.activity.RecordChange(author, c)
	}
	return diff
}

// persist snapshots the index and writes it out. The index lock is not held during the write.
func (s *Service) persist(ctx context.Context, op string) (uint64, error) {
	terms, rev := s.index.Snapshot()
	s.metrics.SetTermCount(len(terms))
	if s.store == nil {
		return rev, nil
	}

	if _, err := s.store.Save(ctx, terms, rev); err != nil {
		s.metrics.PersistenceFailure()
		s.log.ErrorContext(ctx, "persist dictionary",
			slog.String("op", op),
			slog.Uint64("revision", rev),
			slog.String("error", err.Error()),
		)
		return rev, &domain.PersistenceError{Op: op, Err: err}
	}
	return rev, nil
}
