package version

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/internal/service/glossary"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

type termSource interface {
	Snapshot(ctx context.Context) (map[string]domain.TechnicalTerm, []string)
	ReplaceAll(ctx context.Context, terms map[string]domain.TechnicalTerm, op string) (domain.MergeReport, error)
}

type versionRepo interface {
	Create(v domain.DictionaryVersion) error
	Get(id string) (domain.DictionaryVersion, error)
	List() []domain.DictionaryVersion
	Compare(a, b string, now time.Time) (domain.MergeReport, error)
	Len() int
}

type archiver interface {
	Store(ctx context.Context, v domain.DictionaryVersion) (string, error)
	Versions(ctx context.Context) ([]domain.DictionaryVersion, error)
}

// Service manages named snapshots of the term set.
type Service struct {
	terms    termSource
	versions versionRepo
	archive  archiver
	clock    clockwork.Clock
	log      *slog.Logger
}

// NewService creates a version service. archive may be nil.
func NewService(log *slog.Logger, clock clockwork.Clock, terms termSource, versions versionRepo, archive archiver) *Service {
	return &Service{
		terms:    terms,
		versions: versions,
		archive:  archive,
		clock:    clock,
		log:      log.With("service", "version"),
	}
}

// CreateVersion snapshots the live term set. An empty ID gets a generated one.
// When archiving fails the version is kept in memory and a *domain.PersistenceError is returned with it.
func (s *Service) CreateVersion(ctx context.Context, input CreateVersionInput) (domain.DictionaryVersion, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.DictionaryVersion{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.DictionaryVersion{}, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.New().String()
	}
	terms, tags := s.terms.Snapshot(ctx)
	v := domain.DictionaryVersion{
		ID:          id,
		CreatedAt:   s.clock.Now().UTC(),
		CreatedBy:   userID,
		Description: strings.TrimSpace(input.Description),
		Terms:       terms,
		Tags:        tags,
	}

	if err := s.versions.Create(v); err != nil {
		return domain.DictionaryVersion{}, fmt.Errorf("create version: %w", err)
	}

	s.log.InfoContext(ctx, "version created",
		slog.String("user_id", userID),
		slog.String("version_id", v.ID),
		slog.Int("terms", len(v.Terms)),
	)

	if s.archive == nil {
		return v, nil
	}
	hash, err := s.archive.Store(ctx, v)
	if err != nil {
		s.log.ErrorContext(ctx, "archive version",
			slog.String("version_id", v.ID),
			slog.String("error", err.Error()),
		)
		return v, &domain.PersistenceError{Op: "archive version", Err: err}
	}
	s.log.DebugContext(ctx, "version archived", slog.String("version_id", v.ID), slog.String("commit", hash))
	return v, nil
}

// ListVersions returns version summaries newest first, without their terms.
func (s *Service) ListVersions(_ context.Context) []domain.DictionaryVersion {
	return s.versions.List()
}

// GetVersion returns a full version.
func (s *Service) GetVersion(_ context.Context, id string) (domain.DictionaryVersion, error) {
	return s.versions.Get(id)
}

// CompareVersions diffs version from against version to.
func (s *Service) CompareVersions(_ context.Context, from, to string) (domain.MergeReport, error) {
	return s.versions.Compare(from, to, s.clock.Now().UTC())
}

// Restore replaces the live term set with the terms of a version.
func (s *Service) Restore(ctx context.Context, id string) (domain.MergeReport, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.MergeReport{}, domain.ErrUnauthorized
	}
	v, err := s.versions.Get(id)
	if err != nil {
		return domain.MergeReport{}, err
	}

	report, err := s.terms.ReplaceAll(ctx, v.Terms, glossary.OpRestore)
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return domain.MergeReport{}, err
	}
	s.log.InfoContext(ctx, "version restored",
		slog.String("version_id", v.ID),
		slog.Int("added", len(report.Added)),
		slog.Int("removed", len(report.Removed)),
		slog.Int("updated", len(report.Updated)),
	)
	return report, err
}

// LoadArchive pulls archived versions into memory. Versions already present are skipped.
func (s *Service) LoadArchive(ctx context.Context) (int, error) {
	if s.archive == nil {
		return 0, nil
	}
	archived, err := s.archive.Versions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load version archive: %w", err)
	}

	loaded := 0
	for _, v := range archived {
		if err := s.versions.Create(v); err != nil {
			s.log.WarnContext(ctx, "skip archived version",
				slog.String("version_id", v.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		loaded++
	}
	s.log.InfoContext(ctx, "version archive loaded", slog.Int("loaded", loaded), slog.Int("total", s.versions.Len()))
	return loaded, nil
}
