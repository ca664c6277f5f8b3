package review

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

const maxCommentLength = 4000

// CreateReviewInput asks reviewers to look at a term.
type CreateReviewInput struct {
	TermID    string
	Reviewers []string
}

// Validate checks all fields and collects all errors.
func (i CreateReviewInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.TermID) == "" {
		errs = append(errs, domain.FieldError{Field: "term_id", Message: "required"})
	}
	if len(cleanReviewers(i.Reviewers)) == 0 {
		errs = append(errs, domain.FieldError{Field: "reviewers", Message: "at least one reviewer is required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AddCommentInput is one comment on a review thread.
type AddCommentInput struct {
	RequestID string
	Text      string
	Field     *string // optional term field the comment is about
}

// Validate checks all fields and collects all errors.
func (i AddCommentInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.RequestID) == "" {
		errs = append(errs, domain.FieldError{Field: "request_id", Message: "required"})
	}
	text := strings.TrimSpace(i.Text)
	if text == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		errs = append(errs, domain.FieldError{Field: "text", Message: "max 4000 characters"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SetStatusInput moves a review to Status.
type SetStatusInput struct {
	RequestID string
	Status    domain.ReviewStatus
}

// Validate checks all fields and collects all errors.
func (i SetStatusInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.RequestID) == "" {
		errs = append(errs, domain.FieldError{Field: "request_id", Message: "required"})
	}
	if !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "invalid"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ResolveConflictInput records how a conflict on a term was settled.
type ResolveConflictInput struct {
	TermID   string
	Kind     domain.ResolutionKind
	Comments string
}

// Validate checks all fields and collects all errors.
func (i ResolveConflictInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.TermID) == "" {
		errs = append(errs, domain.FieldError{Field: "term_id", Message: "required"})
	}
	if !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be KEEP_BASE, ACCEPT_CHANGES, MERGE or CUSTOM"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
