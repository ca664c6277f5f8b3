package glossary

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

const (
	maxTermLength  = 500
	maxListEntries = 200
)

// AddTermInput holds a term to insert or overwrite.
type AddTermInput struct {
	Term domain.TechnicalTerm
}

// Validate checks all fields and collects all errors.
func (i AddTermInput) Validate() error {
	errs := validateTerm(i.Term, true)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateTermInput replaces the term stored under ID. An empty Term.Hebrew keeps
// the key; a different one renames the term.
type UpdateTermInput struct {
	ID     string
	Term   domain.TechnicalTerm
	Strict bool // unknown ID returns ErrNotFound instead of OutcomeMissing
}

// Validate checks all fields and collects all errors.
func (i UpdateTermInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.ID) == "" {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	errs = append(errs, validateTerm(i.Term, false)...)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DeleteTermInput removes the term stored under ID.
type DeleteTermInput struct {
	ID     string
	Strict bool
}

// Validate checks all fields and collects all errors.
func (i DeleteTermInput) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return domain.NewValidationError("id", "required")
	}
	return nil
}

// MutationResult reports what a lenient update or delete did.
type MutationResult struct {
	Outcome domain.MutationOutcome `json:"outcome"`
	Term    *domain.TechnicalTerm  `json:"term,omitempty"`
}

// Facets lists the values in use for each filterable field.
type Facets struct {
	Categories []string `json:"categories"`
	Contexts   []string `json:"contexts"`
	Tags       []string `json:"tags"`
}

func validateTerm(t domain.TechnicalTerm, requireHebrew bool) []domain.FieldError {
	var errs []domain.FieldError

	hebrew := strings.TrimSpace(t.Hebrew)
	if requireHebrew && hebrew == "" {
		errs = append(errs, domain.FieldError{Field: "hebrew", Message: "required"})
	}
	if utf8.RuneCountInString(hebrew) > maxTermLength {
		errs = append(errs, domain.FieldError{Field: "hebrew", Message: "max 500 characters"})
	}

	russian := strings.TrimSpace(t.Russian)
	if russian == "" {
		errs = append(errs, domain.FieldError{Field: "russian", Message: "required"})
	}
	if utf8.RuneCountInString(russian) > maxTermLength {
		errs = append(errs, domain.FieldError{Field: "russian", Message: "max 500 characters"})
	}

	lists := []struct {
		field string
		items []string
	}{
		{"synonyms_he", t.SynonymsHe},
		{"synonyms_ru", t.SynonymsRu},
		{"usage_examples", t.UsageExamples},
		{"tags", t.Tags},
	}
	for _, l := range lists {
		if len(l.items) > maxListEntries {
			errs = append(errs, domain.FieldError{Field: l.field, Message: "max 200 entries"})
		}
	}
	return errs
}
