package domain

import (
	"slices"
	"strings"
	"time"
)

// TechnicalTerm is a single bilingual glossary entry. Hebrew is the identity of the term.
type TechnicalTerm struct {
	Hebrew        string    `json:"hebrew"        yaml:"hebrew"`
	Russian       string    `json:"russian"       yaml:"russian"`
	Context       *string   `json:"context"       yaml:"context,omitempty"`
	Category      *string   `json:"category"      yaml:"category,omitempty"`
	Notes         *string   `json:"notes"         yaml:"notes,omitempty"`
	SynonymsHe    []string  `json:"synonyms_he"   yaml:"synonyms_he"`
	SynonymsRu    []string  `json:"synonyms_ru"   yaml:"synonyms_ru"`
	UsageExamples []string  `json:"usage_examples" yaml:"usage_examples"`
	Tags          []string  `json:"tags"          yaml:"tags"`
	LastUpdated   time.Time `json:"last_updated"  yaml:"last_updated"`
}

// ID returns the key the term is stored under.
func (t *TechnicalTerm) ID() string { return t.Hebrew }

// Primary returns the term text in the given language.
func (t *TechnicalTerm) Primary(lang Language) string {
	if lang == LanguageRussian {
		return t.Russian
	}
	return t.Hebrew
}

// Synonyms returns the synonym list in the given language.
func (t *TechnicalTerm) Synonyms(lang Language) []string {
	if lang == LanguageRussian {
		return t.SynonymsRu
	}
	return t.SynonymsHe
}

// HasTags reports whether the term carries every tag in want.
func (t *TechnicalTerm) HasTags(want []string) bool {
	for _, tag := range want {
		if _, ok := slices.BinarySearch(t.Tags, tag); !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. Versions and callers never share slices with the live index.
func (t TechnicalTerm) Clone() TechnicalTerm {
	out := t
	out.Context = cloneStr(t.Context)
	out.Category = cloneStr(t.Category)
	out.Notes = cloneStr(t.Notes)
	out.SynonymsHe = slices.Clone(t.SynonymsHe)
	out.SynonymsRu = slices.Clone(t.SynonymsRu)
	out.UsageExamples = slices.Clone(t.UsageExamples)
	out.Tags = slices.Clone(t.Tags)
	return out
}

// Normalize trims the key fields and turns Tags into a sorted set.
// Optional fields that are blank become nil.
func (t *TechnicalTerm) Normalize() {
	t.Hebrew = strings.TrimSpace(t.Hebrew)
	t.Russian = strings.TrimSpace(t.Russian)
	t.Context = trimOrNil(t.Context)
	t.Category = trimOrNil(t.Category)
	t.Notes = trimOrNil(t.Notes)
	t.Tags = NormalizeTags(t.Tags)
}

// Equal compares content field by field, including LastUpdated.
func (t *TechnicalTerm) Equal(o *TechnicalTerm) bool {
	return t.SameContent(o) && t.LastUpdated.Equal(o.LastUpdated)
}

// SameContent compares every field except LastUpdated.
func (t *TechnicalTerm) SameContent(o *TechnicalTerm) bool {
	return t.Hebrew == o.Hebrew &&
		t.Russian == o.Russian &&
		strEq(t.Context, o.Context) &&
		strEq(t.Category, o.Category) &&
		strEq(t.Notes, o.Notes) &&
		slices.Equal(t.SynonymsHe, o.SynonymsHe) &&
		slices.Equal(t.SynonymsRu, o.SynonymsRu) &&
		slices.Equal(t.UsageExamples, o.UsageExamples) &&
		slices.Equal(NormalizeTags(t.Tags), NormalizeTags(o.Tags))
}

// NormalizeTags trims, drops blanks, sorts and de-duplicates.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// CloneTerms deep-copies a term map.
func CloneTerms(in map[string]TechnicalTerm) map[string]TechnicalTerm {
	out := make(map[string]TechnicalTerm, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}

// TagSet collects the union of all tags in the map, sorted.
func TagSet(terms map[string]TechnicalTerm) []string {
	var all []string
	for _, t := range terms {
		all = append(all, t.Tags...)
	}
	return NormalizeTags(all)
}

// TermUpdate describes what an index update did. Found is false when the id was unknown.
type TermUpdate struct {
	Found    bool
	Renamed  bool
	Stored   TechnicalTerm
	Previous TechnicalTerm
}

// SearchQuery is a multi-field lookup against the term index.
// Nil filter slices mean "no filter"; Tags use AND semantics.
type SearchQuery struct {
	Text            string   `json:"text"`
	Lang            Language `json:"lang"`
	Categories      []string `json:"categories,omitempty"`
	Contexts        []string `json:"contexts,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	IncludeSynonyms bool     `json:"include_synonyms"`
	ExactMatch      bool     `json:"exact_match"`
}

// Matches applies the text rule of the query to a single candidate string.
// Matching is case-sensitive.
func (q *SearchQuery) Matches(s string) bool {
	if q.ExactMatch {
		return s == q.Text
	}
	return strings.Contains(s, q.Text)
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func strEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
