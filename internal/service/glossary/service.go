package glossary

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

type termIndex interface {
	Add(t domain.TechnicalTerm) (domain.TechnicalTerm, *domain.TechnicalTerm)
	Update(id string, t domain.TechnicalTerm) (domain.TermUpdate, error)
	Delete(id string) (domain.TechnicalTerm, bool)
	Merge(other map[string]domain.TechnicalTerm, now time.Time, guard func(ids ...string) error) (domain.MergeReport, []domain.TermChange, error)
	Swap(terms map[string]domain.TechnicalTerm, now time.Time, guard func(ids ...string) error) (domain.MergeReport, []domain.TermChange, error)

	Get(id string) (domain.TechnicalTerm, bool)
	All() []domain.TechnicalTerm
	Search(q domain.SearchQuery) []domain.TechnicalTerm
	Snapshot() (map[string]domain.TechnicalTerm, uint64)
	Len() int

	Categories() []string
	Contexts() []string
	Tags() []string
	ByCategory(category string) []domain.TechnicalTerm
	ByContext(name string) []domain.TechnicalTerm
	ByTag(tag string) []domain.TechnicalTerm
}

type translator interface {
	Translate(text string, src, dst domain.Language) string
}

type changeLedger interface {
	Record(changes ...domain.TermChange)
	History(termID string) (domain.TermChangeHistory, bool)
}

type lockTable interface {
	Holder(termID string) (domain.EditLock, bool)
}

type activityTracker interface {
	RecordChange(userID string, change domain.TermChange)
}

type snapshotStore interface {
	Save(ctx context.Context, terms map[string]domain.TechnicalTerm, rev uint64) (bool, error)
}

type changePublisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

type syncRecorder interface {
	MarkSynced(at time.Time)
}

type recorder interface {
	ObserveMutation(op, outcome string)
	LockContention()
	PersistenceFailure()
	SetTermCount(n int)
}

// Deps groups the collaborators of the glossary service. Publisher and Sync are optional.
type Deps struct {
	Index      termIndex
	Translator translator
	Ledger     changeLedger
	Locks      lockTable
	Activity   activityTracker
	Store      snapshotStore
	Publisher  changePublisher
	Sync       syncRecorder
	Metrics    recorder
	Clock      clockwork.Clock
}

// Service is the single mutation path over the term index plus its read API.
type Service struct {
	index      termIndex
	translator translator
	ledger     changeLedger
	locks      lockTable
	activity   activityTracker
	store      snapshotStore
	publisher  changePublisher
	sync       syncRecorder
	metrics    recorder
	clock      clockwork.Clock
	log        *slog.Logger

	subMu       sync.RWMutex
	subscribers map[int]func(domain.ChangeEvent)
	nextSub     int
}

// NewService creates a glossary service.
func NewService(log *slog.Logger, deps Deps) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		index:       deps.Index,
		translator:  deps.Translator,
		ledger:      deps.Ledger,
		locks:       deps.Locks,
		activity:    deps.Activity,
		store:       deps.Store,
		publisher:   deps.Publisher,
		sync:        deps.Sync,
		metrics:     metricsOrNop(deps.Metrics),
		clock:       clock,
		log:         log.With("service", "glossary"),
		subscribers: make(map[int]func(domain.ChangeEvent)),
	}
}

// Subscribe registers fn to receive every change event after it is applied.
// Events are delivered synchronously on the mutating goroutine; fn must not block.
// The returned func removes the subscription.
func (s *Service) Subscribe(fn func(domain.ChangeEvent)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Service) notify(ctx context.Context, ev domain.ChangeEvent) {
	s.subMu.RLock()
	subs := make([]func(domain.ChangeEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.log.WarnContext(ctx, "publish change event",
				slog.String("op", ev.Op),
				slog.String("term_id", ev.TermID),
				slog.String("error", err.Error()),
			)
		}
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveMutation(string, string) {}
func (nopRecorder) LockContention()                {}
func (nopRecorder) PersistenceFailure()            {}
func (nopRecorder) SetTermCount(int)               {}

func metricsOrNop(r recorder) recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
