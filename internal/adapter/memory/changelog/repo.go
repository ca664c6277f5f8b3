// Package changelog stores the per-term change ledger. It is independent of the
// term index: removing a term keeps its history.
package changelog

import (
	"slices"
	"sort"
	"sync"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// Repo is an append-only map of term id to ordered changes.
type Repo struct {
	mu      sync.RWMutex
	history map[string][]domain.TermChange
}

// New creates an empty ledger.
func New() *Repo {
	return &Repo{history: make(map[string][]domain.TermChange)}
}

// Record appends changes in order. Changes with an empty TermID are ignored.
func (r *Repo) Record(changes ...domain.TermChange) {
	if len(changes) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range changes {
		if c.TermID == "" {
			continue
		}
		r.history[c.TermID] = append(r.history[c.TermID], c)
	}
}

// History returns a copy of the term's changes, or false if it never changed.
func (r *Repo) History(termID string) (domain.TermChangeHistory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	changes, ok := r.history[termID]
	if !ok {
		return domain.TermChangeHistory{}, false
	}
	return domain.TermChangeHistory{
		TermID:  termID,
		Changes: slices.Clone(changes),
	}, true
}

// TermIDs lists every term that has a history, including deleted ones.
func (r *Repo) TermIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.history))
	for id := range r.history {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
