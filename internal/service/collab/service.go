package collab

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

type lockTable interface {
	Acquire(termID, holder string) (domain.EditLock, error)
	Release(termID, holder string) bool
	Holder(termID string) (domain.EditLock, bool)
	Active() []domain.EditLock
	All() []domain.EditLock
}

type activityTracker interface {
	Register(userID, name string, role domain.CollaboratorRole) domain.CollaboratorInfo
	RecordActivity(a domain.CollaboratorActivity) domain.CollaboratorActivity
	Collaborator(userID string) (domain.CollaboratorInfo, bool)
	Active(window time.Duration) []domain.CollaboratorInfo
	ActivityLog(userID string) []domain.CollaboratorActivity
	Recent(termID string, kind domain.ActivityKind, since time.Time) []domain.CollaboratorActivity
}

type recorder interface {
	LockContention()
}

const (
	DefaultActiveWindow   = 15 * time.Minute
	DefaultConflictWindow = 30 * time.Minute
)

// Config tunes presence and conflict detection windows.
type Config struct {
	ActiveWindow   time.Duration
	ConflictWindow time.Duration
}

// Service coordinates editors: locks, presence and conflict detection.
type Service struct {
	locks    lockTable
	activity activityTracker
	metrics  recorder
	clock    clockwork.Clock
	cfg      Config
	log      *slog.Logger

	syncMu   sync.RWMutex
	lastSync time.Time
}

// NewService creates a collaboration service. metrics may be nil.
func NewService(
	log *slog.Logger,
	clock clockwork.Clock,
	locks lockTable,
	activity activityTracker,
	metrics recorder,
	cfg Config,
) *Service {
	if cfg.ActiveWindow <= 0 {
		cfg.ActiveWindow = DefaultActiveWindow
	}
	if cfg.ConflictWindow <= 0 {
		cfg.ConflictWindow = DefaultConflictWindow
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Service{
		locks:    locks,
		activity: activity,
		metrics:  metrics,
		clock:    clock,
		cfg:      cfg,
		log:      log.With("service", "collab"),
	}
}

// MarkSynced records the time of the last successful merge.
func (s *Service) MarkSynced(at time.Time) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	if at.After(s.lastSync) {
		s.lastSync = at
	}
}

// LastSync returns the time of the last merge, or false if none happened.
func (s *Service) LastSync() (time.Time, bool) {
	s.syncMu.RLock()
	defer s.syncMu.RUnlock()
	return s.lastSync, !s.lastSync.IsZero()
}

type nopRecorder struct{}

func (nopRecorder) LockContention() {}
