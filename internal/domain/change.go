package domain

import (
	"strings"
	"time"
)

// FieldTerm is the field name used for whole-term additions and deletions.
const FieldTerm = "term"

// TermChange is an immutable ledger entry.
type TermChange struct {
	TermID    string     `json:"term_id"`
	Timestamp time.Time  `json:"timestamp"`
	Author    string     `json:"author"`
	Kind      ChangeKind `json:"kind"`
	Field     string     `json:"field"`
	OldValue  *string    `json:"old_value,omitempty"`
	NewValue  *string    `json:"new_value,omitempty"`
}

// TermChangeHistory is the ordered, append-only history of one term.
type TermChangeHistory struct {
	TermID  string       `json:"term_id"`
	Changes []TermChange `json:"changes"`
}

// ChangeEvent is delivered to subscribers after a mutation has been applied.
type ChangeEvent struct {
	Op       string       `json:"op"`
	TermID   string       `json:"term_id"`
	Author   string       `json:"author"`
	Revision uint64       `json:"revision"`
	Changes  []TermChange `json:"changes,omitempty"`
	At       time.Time    `json:"at"`
}

// DiffTerms computes the field-level ledger entries for replacing before with after.
// A nil before yields one addition; a nil after yields one deletion.
// Timestamp and Author are left for the caller to fill.
func DiffTerms(before, after *TechnicalTerm) []TermChange {
	switch {
	case before == nil && after == nil:
		return nil
	case before == nil:
		return []TermChange{{
			TermID:   after.Hebrew,
			Kind:     ChangeAddition,
			Field:    FieldTerm,
			NewValue: Ptr(after.Russian),
		}}
	case after == nil:
		return []TermChange{{
			TermID:   before.Hebrew,
			Kind:     ChangeDeletion,
			Field:    FieldTerm,
			OldValue: Ptr(before.Russian),
		}}
	}

	var out []TermChange
	add := func(field string, oldV, newV *string) {
		if strEq(oldV, newV) {
			return
		}
		out = append(out, TermChange{
			TermID:   after.Hebrew,
			Kind:     ChangeModification,
			Field:    field,
			OldValue: oldV,
			NewValue: newV,
		})
	}

	add("russian", Ptr(before.Russian), Ptr(after.Russian))
	add("context", before.Context, after.Context)
	add("category", before.Category, after.Category)
	add("notes", before.Notes, after.Notes)
	add("synonyms_he", joinList(before.SynonymsHe), joinList(after.SynonymsHe))
	add("synonyms_ru", joinList(before.SynonymsRu), joinList(after.SynonymsRu))
	add("usage_examples", joinList(before.UsageExamples), joinList(after.UsageExamples))
	add("tags", joinList(NormalizeTags(before.Tags)), joinList(NormalizeTags(after.Tags)))
	return out
}

func joinList(items []string) *string {
	if len(items) == 0 {
		return nil
	}
	s := strings.Join(items, "; ")
	return &s
}
