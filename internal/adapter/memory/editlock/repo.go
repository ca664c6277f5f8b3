// Package editlock holds advisory, time-boxed locks on terms.
//
// Expiry is evaluated lazily against the injected clock. Expired locks stay in
// the table (conflict detection reads them) but are treated as absent by every
// other operation.
package editlock

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// DefaultTTL is how long a lock lives when no TTL is configured.
const DefaultTTL = 30 * time.Minute

// Repo is the lock table.
type Repo struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu    sync.RWMutex
	locks map[string]domain.EditLock
}

// New creates an empty lock table. A non-positive ttl falls back to DefaultTTL.
func New(clock clockwork.Clock, ttl time.Duration) *Repo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repo{
		clock: clock,
		ttl:   ttl,
		locks: make(map[string]domain.EditLock),
	}
}

// TTL returns the configured lock lifetime.
func (r *Repo) TTL() time.Duration { return r.ttl }

// Acquire grants holder a fresh lock on termID unless an unexpired one exists,
// in which case it returns a *domain.LockedError immediately. That includes a
// lock the same holder already owns; it can be taken again once it expires.
func (r *Repo) Acquire(termID, holder string) (domain.EditLock, error) {
	now := r.clock.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.locks[termID]; ok && !cur.ExpiredAt(now) {
		return domain.EditLock{}, &domain.LockedError{
			TermID:    termID,
			Holder:    cur.Holder,
			ExpiresAt: cur.ExpiresAt,
		}
	}

	lock := domain.EditLock{
		TermID:     termID,
		Holder:     holder,
		AcquiredAt: now,
		ExpiresAt:  now.Add(r.ttl),
	}
	r.locks[termID] = lock
	return lock, nil
}

// Release drops the lock if holder currently holds it unexpired.
func (r *Repo) Release(termID, holder string) bool {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.locks[termID]
	if !ok || cur.Holder != holder || cur.ExpiredAt(now) {
		return false
	}
	delete(r.locks, termID)
	return true
}

// Holder returns the unexpired lock on termID, if any.
func (r *Repo) Holder(termID string) (domain.EditLock, bool) {
	now := r.clock.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	cur, ok := r.locks[termID]
	if !ok || cur.ExpiredAt(now) {
		return domain.EditLock{}, false
	}
	return cur, true
}

// Active lists unexpired locks ordered by term id.
func (r *Repo) Active() []domain.EditLock {
	now := r.clock.Now()
	return r.list(func(l *domain.EditLock) bool { return !l.ExpiredAt(now) })
}

// All lists every stored lock, expired ones included, ordered by term id.
func (r *Repo) All() []domain.EditLock {
	return r.list(func(*domain.EditLock) bool { return true })
}

func (r *Repo) list(keep func(*domain.EditLock) bool) []domain.EditLock {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.EditLock, 0, len(r.locks))
	for _, l := range r.locks {
		if keep(&l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TermID < out[j].TermID })
	return out
}
