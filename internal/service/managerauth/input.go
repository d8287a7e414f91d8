package managerauth

import (
	"strings"

	"github.com/minicrm/backend/internal/domain"
)

// BootstrapInput holds parameters for the first-admin bootstrap operation.
type BootstrapInput struct {
	Email    string
	Password string
}

// Validate validates the bootstrap input.
func (i BootstrapInput) Validate() error {
	var errs []domain.FieldError

	errs = append(errs, validateEmail(i.Email)...)
	errs = append(errs, validatePassword(i.Password)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginInput holds parameters for the manager login operation.
type LoginInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateEmail(email string) []domain.FieldError {
	var errs []domain.FieldError
	switch {
	case email == "":
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	case len(email) > 320:
		errs = append(errs, domain.FieldError{Field: "email", Message: "too long"})
	case !strings.Contains(email, "@"):
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid format"})
	}
	return errs
}

func validatePassword(password string) []domain.FieldError {
	var errs []domain.FieldError
	switch {
	case password == "":
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	case len(password) < 8:
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	case len(password) > 72:
		// bcrypt truncates beyond 72 bytes
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}
	return errs
}
