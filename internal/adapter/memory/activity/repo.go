// Package activity tracks collaborator presence, the global activity log and
// each collaborator's recent changes. Both logs are fixed-capacity rings that
// drop their oldest entry when full.
package activity

import (
	"sort"
	"sync"
	"time"

	"github.com/emirpasic/gods/queues/circularbuffer"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

const (
	DefaultLogCapacity    = 1000
	DefaultChangeCapacity = 100
	DefaultActiveWindow   = 15 * time.Minute
)

// Options sizes the rings. Zero values use the defaults.
type Options struct {
	LogCapacity    int
	ChangeCapacity int
}

type collaborator struct {
	info    domain.CollaboratorInfo
	changes *circularbuffer.Queue
}

// Repo is the activity tracker.
type Repo struct {
	clock          clockwork.Clock
	changeCapacity int

	mu            sync.RWMutex
	collaborators map[string]*collaborator
	log           *circularbuffer.Queue
}

// New creates an empty tracker.
func New(clock clockwork.Clock, opts Options) *Repo {
	if opts.LogCapacity <= 0 {
		opts.LogCapacity = DefaultLogCapacity
	}
	if opts.ChangeCapacity <= 0 {
		opts.ChangeCapacity = DefaultChangeCapacity
	}
	return &Repo{
		clock:          clock,
		changeCapacity: opts.ChangeCapacity,
		collaborators:  make(map[string]*collaborator),
		log:            circularbuffer.New(opts.LogCapacity),
	}
}

// Register creates a collaborator or updates the name and role of an existing one.
func (r *Repo) Register(userID, name string, role domain.CollaboratorRole) domain.CollaboratorInfo {
	now := r.clock.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.ensure(userID, now)
	if name != "" {
		c.info.Name = name
	}
	if role.IsValid() {
		c.info.Role = role
	}
	c.info.LastActive = now
	return c.snapshot()
}

// RecordActivity pushes a onto the global log and makes it the collaborator's
// current activity. Unknown users are registered as viewers named by their id.
func (r *Repo) RecordActivity(a domain.CollaboratorActivity) domain.CollaboratorActivity {
	now := r.clock.Now().UTC()
	if a.StartedAt.IsZero() {
		a.StartedAt = now
	}
	if a.Status == "" {
		a.Status = domain.ActivityInProgress
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.ensure(a.UserID, now)
	c.info.LastActive = now
	current := cloneActivity(a)
	c.info.CurrentActivity = &current
	r.log.Enqueue(cloneActivity(a))
	return cloneActivity(a)
}

// RecordChange pushes change onto the author's personal ring.
func (r *Repo) RecordChange(userID string, change domain.TermChange) {
	now := r.clock.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.ensure(userID, now)
	c.info.LastActive = now
	c.changes.Enqueue(change)
}

// Collaborator returns the collaborator with their recent changes, newest first.
func (r *Repo) Collaborator(userID string) (domain.CollaboratorInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collaborators[userID]
	if !ok {
		return domain.CollaboratorInfo{}, false
	}
	return c.snapshot(), true
}

// Active lists collaborators seen within window, most recently active first.
// A non-positive window uses DefaultActiveWindow.
func (r *Repo) Active(window time.Duration) []domain.CollaboratorInfo {
	if window <= 0 {
		window = DefaultActiveWindow
	}
	cutoff := r.clock.Now().Add(-window)

	r.mu.RLock()
	out := make([]domain.CollaboratorInfo, 0, len(r.collaborators))
	for _, c := range r.collaborators {
		if c.info.LastActive.After(cutoff) {
			out = append(out, c.snapshot())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActive.Equal(out[j].LastActive) {
			return out[i].LastActive.After(out[j].LastActive)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// ActivityLog returns the global log newest first, optionally filtered by user.
func (r *Repo) ActivityLog(userID string) []domain.CollaboratorActivity {
	return r.scan(func(a *domain.CollaboratorActivity) bool {
		return userID == "" || a.UserID == userID
	})
}

// Recent returns logged activities of kind that target termID and started at or after since, newest first.
func (r *Repo) Recent(termID string, kind domain.ActivityKind, since time.Time) []domain.CollaboratorActivity {
	return r.scan(func(a *domain.CollaboratorActivity) bool {
		return a.Kind == kind && a.Targets(termID) && !a.StartedAt.Before(since)
	})
}

func (r *Repo) scan(keep func(*domain.CollaboratorActivity) bool) []domain.CollaboratorActivity {
	r.mu.RLock()
	values := r.log.Values()
	r.mu.RUnlock()

	out := make([]domain.CollaboratorActivity, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		a := values[i].(domain.CollaboratorActivity)
		if keep(&a) {
			out = append(out, cloneActivity(a))
		}
	}
	return out
}

// ensure must be called with mu held for writing.
func (r *Repo) ensure(userID string, now time.Time) *collaborator {
	c, ok := r.collaborators[userID]
	if !ok {
		c = &collaborator{
			info: domain.CollaboratorInfo{
				UserID:     userID,
				Name:       userID,
				Role:       domain.RoleViewer,
				LastActive: now,
			},
			changes: circularbuffer.New(r.changeCapacity),
		}
		r.collaborators[userID] = c
	}
	return c
}

func (c *collaborator) snapshot() domain.CollaboratorInfo {
	info := c.info
	if c.info.CurrentActivity != nil {
		a := cloneActivity(*c.info.CurrentActivity)
		info.CurrentActivity = &a
	}
	values := c.changes.Values()
	info.RecentChanges = make([]domain.TermChange, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		info.RecentChanges = append(info.RecentChanges, values[i].(domain.TermChange))
	}
	return info
}

func cloneActivity(a domain.CollaboratorActivity) domain.CollaboratorActivity {
	if a.TermID != nil {
		a.TermID = domain.Ptr(*a.TermID)
	}
	if a.FailureReason != nil {
		a.FailureReason = domain.Ptr(*a.FailureReason)
	}
	return a
}
