package glossary

import (
	"context"
	"fmt"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// GetTerm returns the term stored under id.
func (s *Service) GetTerm(_ context.Context, id string) (domain.TechnicalTerm, error) {
	t, ok := s.index.Get(id)
	if !ok {
		return domain.TechnicalTerm{}, fmt.Errorf("term %q: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// ListTerms returns every term sorted by Hebrew.
func (s *Service) ListTerms(_ context.Context) []domain.TechnicalTerm {
	return s.index.All()
}

// Search runs q against the index. An unsupported language yields no results.
func (s *Service) Search(_ context.Context, q domain.SearchQuery) []domain.TechnicalTerm {
	return s.index.Search(q)
}

// Translate replaces every known term in text with its counterpart in dst.
func (s *Service) Translate(_ context.Context, text string, src, dst domain.Language) string {
	return s.translator.Translate(text, src, dst)
}

// History returns the change history of a term, including deleted ones.
func (s *Service) History(_ context.Context, id string) (domain.TermChangeHistory, error) {
	h, ok := s.ledger.History(id)
	if !ok {
		return domain.TermChangeHistory{}, fmt.Errorf("history %q: %w", id, domain.ErrNotFound)
	}
	return h, nil
}

// Facets lists categories, contexts and tags currently in use.
func (s *Service) Facets(_ context.Context) Facets {
	return Facets{
		Categories: s.index.Categories(),
		Contexts:   s.index.Contexts(),
		Tags:       s.index.Tags(),
	}
}

// TermsByCategory lists the terms of one category.
func (s *Service) TermsByCategory(_ context.Context, category string) []domain.TechnicalTerm {
	return s.index.ByCategory(category)
}

// TermsByContext lists the terms of one context.
func (s *Service) TermsByContext(_ context.Context, name string) []domain.TechnicalTerm {
	return s.index.ByContext(name)
}

// TermsByTag lists the terms that carry tag.
func (s *Service) TermsByTag(_ context.Context, tag string) []domain.TechnicalTerm {
	return s.index.ByTag(tag)
}

// Snapshot returns a deep copy of the live term map with the tag union.
func (s *Service) Snapshot(_ context.Context) (map[string]domain.TechnicalTerm, []string) {
	terms, _ := s.index.Snapshot()
	return terms, domain.TagSet(terms)
}

// Len returns the number of terms.
func (s *Service) Len() int {
	return s.index.Len()
}
