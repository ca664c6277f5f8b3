package version

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// CreateVersionInput names a new snapshot. ID is optional.
type CreateVersionInput struct {
	ID          string
	Description string
}

// Validate checks all fields and collects all errors.
func (i CreateVersionInput) Validate() error {
	var errs []domain.FieldError
	if utf8.RuneCountInString(strings.TrimSpace(i.ID)) > 100 {
		errs = append(errs, domain.FieldError{Field: "version_id", Message: "max 100 characters"})
	}
	if utf8.RuneCountInString(i.Description) > 2000 {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 2000 characters"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
