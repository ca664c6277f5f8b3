package domain

import (
	"slices"
	"strings"
	"time"
)

// DictionaryVersion is an immutable named snapshot of the whole term set.
type DictionaryVersion struct {
	ID          string                   `json:"version_id"`
	CreatedAt   time.Time                `json:"created_at"`
	CreatedBy   string                   `json:"created_by"`
	Description string                   `json:"description"`
	Terms       map[string]TechnicalTerm `json:"terms"`
	Tags        []string                 `json:"tags"`
}

// Clone returns a deep copy of the version.
func (v DictionaryVersion) Clone() DictionaryVersion {
	out := v
	out.Terms = CloneTerms(v.Terms)
	out.Tags = slices.Clone(v.Tags)
	return out
}

// TermPair holds the two sides of a conflicting term.
type TermPair struct {
	Base  TechnicalTerm `json:"base"`
	Other TechnicalTerm `json:"other"`
}

// MergeReport is shared by version comparison and dictionary merges.
type MergeReport struct {
	Added       []TechnicalTerm `json:"added"`
	Updated     []TechnicalTerm `json:"updated"`
	Removed     []TechnicalTerm `json:"removed"`
	Conflicting []TermPair      `json:"conflicting"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Empty reports whether the two sides were identical.
func (r *MergeReport) Empty() bool {
	return len(r.Added) == 0 && len(r.Updated) == 0 && len(r.Removed) == 0 && len(r.Conflicting) == 0
}

// CompareTerms diffs two term maps, from a to b.
//
// Added: in b, not in a. Removed: in a, not in b. Updated: in both with unequal content.
// Conflicting: in both, same LastUpdated, unequal content.
func CompareTerms(a, b map[string]TechnicalTerm, now time.Time) MergeReport {
	report := MergeReport{Timestamp: now}

	for id, tb := range b {
		ta, ok := a[id]
		if !ok {
			report.Added = append(report.Added, tb.Clone())
			continue
		}
		if ta.Equal(&tb) {
			continue
		}
		report.Updated = append(report.Updated, tb.Clone())
		if ta.LastUpdated.Equal(tb.LastUpdated) {
			report.Conflicting = append(report.Conflicting, TermPair{Base: ta.Clone(), Other: tb.Clone()})
		}
	}
	for id, ta := range a {
		if _, ok := b[id]; !ok {
			report.Removed = append(report.Removed, ta.Clone())
		}
	}

	report.sort()
	return report
}

// MergeTerms applies the merge policy of other onto base without mutating either map.
// It returns the report and the terms that should be written into base.
//
// Newer LastUpdated wins outright. Equal timestamps with different content are
// reported as conflicts and left alone. Older incoming terms are ignored.
func MergeTerms(base, other map[string]TechnicalTerm, now time.Time) (MergeReport, []TechnicalTerm) {
	report := MergeReport{Timestamp: now}
	var apply []TechnicalTerm

	for id, ot := range other {
		bt, ok := base[id]
		switch {
		case !ok:
			report.Added = append(report.Added, ot.Clone())
			apply = append(apply, ot.Clone())
		case bt.LastUpdated.Before(ot.LastUpdated):
			report.Updated = append(report.Updated, ot.Clone())
			apply = append(apply, ot.Clone())
		case bt.LastUpdated.Equal(ot.LastUpdated) && !bt.SameContent(&ot):
			report.Conflicting = append(report.Conflicting, TermPair{Base: bt.Clone(), Other: ot.Clone()})
		}
	}

	report.sort()
	slices.SortFunc(apply, byHebrew)
	return report, apply
}

func (r *MergeReport) sort() {
	slices.SortFunc(r.Added, byHebrew)
	slices.SortFunc(r.Updated, byHebrew)
	slices.SortFunc(r.Removed, byHebrew)
	slices.SortFunc(r.Conflicting, func(a, b TermPair) int {
		return strings.Compare(a.Base.Hebrew, b.Base.Hebrew)
	})
}

func byHebrew(a, b TechnicalTerm) int {
	return strings.Compare(a.Hebrew, b.Hebrew)
}
