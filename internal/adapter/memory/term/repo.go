// Package term is the authoritative in-memory term index with its derived
// category, context and tag indices.
package term

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

type keySet map[string]struct{}

// Repo owns the hebrew -> term map. Derived indices are rebuilt on every write
// while the write lock is held, so readers never observe them out of sync.
type Repo struct {
	clock clockwork.Clock

	mu         sync.RWMutex
	terms      map[string]domain.TechnicalTerm
	byCategory map[string]keySet
	byContext  map[string]keySet
	byTag      map[string]keySet
	revision   uint64
}

// New creates an empty repo. Pass the initial terms through Replace.
func New(clock clockwork.Clock) *Repo {
	r := &Repo{
		clock: clock,
		terms: make(map[string]domain.TechnicalTerm),
	}
	r.rebuildIndices()
	return r
}

// Add inserts or overwrites a term, stamping LastUpdated.
// It returns the stored copy and the previous version if one existed.
func (r *Repo) Add(t domain.TechnicalTerm) (stored domain.TechnicalTerm, prev *domain.TechnicalTerm) {
	t = t.Clone()
	t.Normalize()
	t.LastUpdated = r.clock.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.terms[t.Hebrew]; ok {
		prev = &old
	}
	r.terms[t.Hebrew] = t
	r.commit()
	return t.Clone(), prev
}

// Update replaces the term stored under id. If the replacement carries a different
// Hebrew value the old key is removed and the new one inserted; that fails with a
// validation error when the new key is taken by another term.
// Found is false, and nothing changes, when id is unknown.
func (r *Repo) Update(id string, t domain.TechnicalTerm) (domain.TermUpdate, error) {
	t = t.Clone()
	t.Normalize()
	if t.Hebrew == "" {
		t.Hebrew = id
	}
	t.LastUpdated = r.clock.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.terms[id]
	if !ok {
		return domain.TermUpdate{}, nil
	}
	renamed := t.Hebrew != id
	if renamed {
		if _, taken := r.terms[t.Hebrew]; taken {
			return domain.TermUpdate{}, domain.NewValidationError("hebrew", "already used by another term")
		}
		delete(r.terms, id)
	}
	r.terms[t.Hebrew] = t
	r.commit()
	return domain.TermUpdate{Found: true, Renamed: renamed, Stored: t.Clone(), Previous: prev}, nil
}

// Delete removes a term. It returns the removed term, or false when id is unknown.
func (r *Repo) Delete(id string) (domain.TechnicalTerm, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.terms[id]
	if !ok {
		return domain.TechnicalTerm{}, false
	}
	delete(r.terms, id)
	r.commit()
	return old, true
}

// Replace swaps the whole term set (initial load).
func (r *Repo) Replace(terms map[string]domain.TechnicalTerm) {
	next := normalized(terms)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.terms = next
	r.commit()
}

// Merge folds other into the live set following domain.MergeTerms. The merge
// decision and the write happen under one write lock. Incoming LastUpdated
// values are kept. guard, when set, receives the ids about to be written and
// can refuse the whole merge. It returns the report and the diff of what was written.
func (r *Repo) Merge(other map[string]domain.TechnicalTerm, now time.Time, guard func(ids ...string) error) (domain.MergeReport, []domain.TermChange, error) {
	incoming := normalized(other)

	r.mu.Lock()
	defer r.mu.Unlock()

	report, apply := domain.MergeTerms(r.terms, incoming, now)
	if len(apply) == 0 {
		return report, nil, nil
	}
	if guard != nil {
		ids := make([]string, len(apply))
		for i := range apply {
			ids[i] = apply[i].Hebrew
		}
		if err := guard(ids...); err != nil {
			return domain.MergeReport{}, nil, err
		}
	}

	var diff []domain.TermChange
	for i := range apply {
		var prev *domain.TechnicalTerm
		if old, ok := r.terms[apply[i].Hebrew]; ok {
			prev = &old
		}
		diff = append(diff, domain.DiffTerms(prev, &apply[i])...)
		r.terms[apply[i].Hebrew] = apply[i]
	}
	r.commit()
	return report, diff, nil
}

// Swap replaces the whole term set (import, restore) and returns the comparison
// of the old set against the new one with the diff, ordered by term id.
// guard, when set, receives every id that changes and can refuse the swap.
func (r *Repo) Swap(terms map[string]domain.TechnicalTerm, now time.Time, guard func(ids ...string) error) (domain.MergeReport, []domain.TermChange, error) {
	next := normalized(terms)

	r.mu.Lock()
	defer r.mu.Unlock()

	report := domain.CompareTerms(r.terms, next, now)

	var ids []string
	var diff []domain.TermChange
	for i := range report.Removed {
		ids = append(ids, report.Removed[i].Hebrew)
		diff = append(diff, domain.DiffTerms(&report.Removed[i], nil)...)
	}
	for i := range report.Added {
		ids = append(ids, report.Added[i].Hebrew)
		diff = append(diff, domain.DiffTerms(nil, &report.Added[i])...)
	}
	for i := range report.Updated {
		old := r.terms[report.Updated[i].Hebrew]
		ids = append(ids, old.Hebrew)
		diff = append(diff, domain.DiffTerms(&old, &report.Updated[i])...)
	}
	if guard != nil && len(ids) > 0 {
		if err := guard(ids...); err != nil {
			return domain.MergeReport{}, nil, err
		}
	}
	sort.SliceStable(diff, func(i, j int) bool { return diff[i].TermID < diff[j].TermID })

	r.terms = next
	r.commit()
	return report, diff, nil
}

// Get returns a copy of the term stored under id.
func (r *Repo) Get(id string) (domain.TechnicalTerm, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.terms[id]
	if !ok {
		return domain.TechnicalTerm{}, false
	}
	return t.Clone(), true
}

// All returns every term sorted by Hebrew.
func (r *Repo) All() []domain.TechnicalTerm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.TechnicalTerm, 0, len(r.terms))
	for _, t := range r.terms {
		out = append(out, t.Clone())
	}
	sortByHebrew(out)
	return out
}

// Snapshot returns a deep copy of the term map with the revision it corresponds to.
func (r *Repo) Snapshot() (map[string]domain.TechnicalTerm, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.CloneTerms(r.terms), r.revision
}

// Revision increases by one on every mutation.
func (r *Repo) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// Len returns the number of terms.
func (r *Repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.terms)
}

// Categories lists every category in use, sorted.
func (r *Repo) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.byCategory)
}

// Contexts lists every context in use, sorted.
func (r *Repo) Contexts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.byContext)
}

// Tags lists every tag in use, sorted.
func (r *Repo) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.byTag)
}

// ByCategory returns the terms in a category, sorted by Hebrew.
func (r *Repo) ByCategory(category string) []domain.TechnicalTerm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byCategory[category])
}

// ByContext returns the terms in a context, sorted by Hebrew.
func (r *Repo) ByContext(context string) []domain.TechnicalTerm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byContext[context])
}

// ByTag returns the terms carrying a tag, sorted by Hebrew.
func (r *Repo) ByTag(tag string) []domain.TechnicalTerm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byTag[tag])
}

// commit must be called with mu held for writing.
func (r *Repo) commit() {
	r.rebuildIndices()
	r.revision++
}

func (r *Repo) rebuildIndices() {
	r.byCategory = make(map[string]keySet)
	r.byContext = make(map[string]keySet)
	r.byTag = make(map[string]keySet)

	for key, t := range r.terms {
		if t.Category != nil {
			addKey(r.byCategory, *t.Category, key)
		}
		if t.Context != nil {
			addKey(r.byContext, *t.Context, key)
		}
		for _, tag := range t.Tags {
			addKey(r.byTag, tag, key)
		}
	}
}

func (r *Repo) collect(keys keySet) []domain.TechnicalTerm {
	out := make([]domain.TechnicalTerm, 0, len(keys))
	for key := range keys {
		if t, ok := r.terms[key]; ok {
			out = append(out, t.Clone())
		}
	}
	sortByHebrew(out)
	return out
}

func addKey(idx map[string]keySet, value, key string) {
	set, ok := idx[value]
	if !ok {
		set = make(keySet)
		idx[value] = set
	}
	set[key] = struct{}{}
}

func sortedKeys(idx map[string]keySet) []string {
	out := make([]string, 0, len(idx))
	for k := range idx {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func sortByHebrew(terms []domain.TechnicalTerm) {
	sort.Slice(terms, func(i, j int) bool { return terms[i].Hebrew < terms[j].Hebrew })
}

// normalized copies terms keyed by their Hebrew value. An empty Hebrew falls
// back to the map key; terms that stay empty are dropped.
func normalized(terms map[string]domain.TechnicalTerm) map[string]domain.TechnicalTerm {
	out := make(map[string]domain.TechnicalTerm, len(terms))
	for key, t := range terms {
		t = t.Clone()
		if t.Hebrew == "" {
			t.Hebrew = key
		}
		t.Normalize()
		if t.Hebrew == "" {
			continue
		}
		out[t.Hebrew] = t
	}
	return out
}
