package collab

import (
	"strings"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// RegisterInput registers the caller, or updates their name and role.
type RegisterInput struct {
	Name string
	Role domain.CollaboratorRole
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError
	if len(strings.TrimSpace(i.Name)) > 100 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 100 characters"})
	}
	if i.Role != "" && !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be ADMIN, EDITOR, REVIEWER or VIEWER"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordActivityInput describes what the caller is doing.
type RecordActivityInput struct {
	Kind          domain.ActivityKind
	TermID        *string
	Status        domain.ActivityStatus
	FailureReason *string
}

// Validate checks all fields and collects all errors.
func (i RecordActivityInput) Validate() error {
	var errs []domain.FieldError
	if !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be EDITING, REVIEWING, COMPARING or EXPORTING"})
	}
	if i.Status != "" && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "invalid"})
	}
	if i.Status == domain.ActivityFailed && (i.FailureReason == nil || strings.TrimSpace(*i.FailureReason) == "") {
		errs = append(errs, domain.FieldError{Field: "failure_reason", Message: "required when status is FAILED"})
	}
	if i.TermID != nil && strings.TrimSpace(*i.TermID) == "" {
		errs = append(errs, domain.FieldError{Field: "term_id", Message: "must not be blank"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
