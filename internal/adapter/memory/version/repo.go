// Package version stores immutable dictionary snapshots.
package version

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// Repo keeps every version for the life of the process.
type Repo struct {
	mu       sync.RWMutex
	versions map[string]domain.DictionaryVersion
}

// New creates an empty version store.
func New() *Repo {
	return &Repo{versions: make(map[string]domain.DictionaryVersion)}
}

// Create stores a deep copy of v. The id must be unique.
func (r *Repo) Create(v domain.DictionaryVersion) error {
	if v.ID == "" {
		return domain.NewValidationError("version_id", "required")
	}
	v = v.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.versions[v.ID]; exists {
		return fmt.Errorf("version %q: %w", v.ID, domain.ErrDuplicateVersion)
	}
	r.versions[v.ID] = v
	return nil
}

// Get returns a deep copy of the version.
func (r *Repo) Get(id string) (domain.DictionaryVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.versions[id]
	if !ok {
		return domain.DictionaryVersion{}, fmt.Errorf("version %q: %w", id, domain.ErrNotFound)
	}
	return v.Clone(), nil
}

// List returns versions newest first; equal timestamps are ordered by id.
// Term maps are omitted, callers fetch them with Get.
func (r *Repo) List() []domain.DictionaryVersion {
	r.mu.RLock()
	out := make([]domain.DictionaryVersion, 0, len(r.versions))
	for _, v := range r.versions {
		header := v.Clone()
		header.Terms = nil
		out = append(out, header)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Compare diffs version a against version b.
func (r *Repo) Compare(a, b string, now time.Time) (domain.MergeReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	va, ok := r.versions[a]
	if !ok {
		return domain.MergeReport{}, fmt.Errorf("version %q: %w", a, domain.ErrNotFound)
	}
	vb, ok := r.versions[b]
	if !ok {
		return domain.MergeReport{}, fmt.Errorf("version %q: %w", b, domain.ErrNotFound)
	}
	return domain.CompareTerms(va.Terms, vb.Terms, now), nil
}

// Len returns the number of stored versions.
func (r *Repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.versions)
}
