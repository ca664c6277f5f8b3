package term

import (
	"slices"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// Search runs a query against the index. It never mutates.
// Results are sorted by Hebrew. An unsupported language yields no results.
func (r *Repo) Search(q domain.SearchQuery) []domain.TechnicalTerm {
	if !q.Lang.IsValid() {
		return []domain.TechnicalTerm{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.TechnicalTerm, 0)
	for key := range r.candidates(q) {
		t := r.terms[key]
		if !matchesText(&t, q) || !matchesFilters(&t, q) {
			continue
		}
		out = append(out, t.Clone())
	}
	sortByHebrew(out)
	return out
}

// candidates narrows the scan using the derived indices. Must be called with mu held.
func (r *Repo) candidates(q domain.SearchQuery) keySet {
	var sets []keySet

	if q.Categories != nil {
		sets = append(sets, union(r.byCategory, q.Categories))
	}
	if q.Contexts != nil {
		sets = append(sets, union(r.byContext, q.Contexts))
	}
	for _, tag := range q.Tags {
		sets = append(sets, r.byTag[tag])
	}

	if len(sets) == 0 {
		all := make(keySet, len(r.terms))
		for key := range r.terms {
			all[key] = struct{}{}
		}
		return all
	}

	slices.SortFunc(sets, func(a, b keySet) int { return len(a) - len(b) })
	out := make(keySet, len(sets[0]))
next:
	for key := range sets[0] {
		for _, s := range sets[1:] {
			if _, ok := s[key]; !ok {
				continue next
			}
		}
		out[key] = struct{}{}
	}
	return out
}

func union(idx map[string]keySet, values []string) keySet {
	out := make(keySet)
	for _, v := range values {
		for key := range idx[v] {
			out[key] = struct{}{}
		}
	}
	return out
}

func matchesText(t *domain.TechnicalTerm, q domain.SearchQuery) bool {
	if q.Matches(t.Primary(q.Lang)) {
		return true
	}
	if !q.IncludeSynonyms {
		return false
	}
	return slices.ContainsFunc(t.Synonyms(q.Lang), q.Matches)
}

// matchesFilters re-checks the filters against the term itself, so the result
// does not depend on the narrowing above.
func matchesFilters(t *domain.TechnicalTerm, q domain.SearchQuery) bool {
	if q.Categories != nil && (t.Category == nil || !slices.Contains(q.Categories, *t.Category)) {
		return false
	}
	if q.Contexts != nil && (t.Context == nil || !slices.Contains(q.Contexts, *t.Context)) {
		return false
	}
	return t.HasTags(q.Tags)
}
