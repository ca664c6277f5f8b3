// Package resolution is the append-only log of settled conflicts. It records
// decisions only; applying a resulting term change is the caller's job.
package resolution

import (
	"sync"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

type Repo struct {
	mu      sync.RWMutex
	records []domain.ConflictResolutionRecord
}

func New() *Repo {
	return &Repo{}
}

// Append adds a record at the end of the log.
func (r *Repo) Append(rec domain.ConflictResolutionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// List returns records for termID in insertion order. An empty termID returns all of them.
func (r *Repo) List(termID string) []domain.ConflictResolutionRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ConflictResolutionRecord, 0, len(r.records))
	for _, rec := range r.records {
		if termID == "" || rec.TermID == termID {
			out = append(out, rec)
		}
	}
	return out
}
