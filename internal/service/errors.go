package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

var (
	// ErrUnauthenticated is returned when the acting user cannot be loaded.
	ErrUnauthenticated = errors.New("service: unauthenticated")
	// ErrForbidden is returned when the actor lacks the role or membership.
	ErrForbidden = errors.New("service: forbidden")
	// ErrInvalid is wrapped by every *ValidationError.
	ErrInvalid = errors.New("service: invalid input")
	// ErrAlreadySubmitted is returned when the user already answered a form.
	ErrAlreadySubmitted = errors.New("service: form already submitted")
)

// ValidationError carries the per-field failures of a rejected request.
// Exactly one of Fields, Company or Problems is usually set.
type ValidationError struct {
	// Fields holds answer failures from the submission gate.
	Fields []submission.FieldError
	// Company holds company attribute failures.
	Company branding.CompanyErrors
	// Problems holds schema-level failures (duplicate ids, unknown types).
	Problems []string
}

func (e *ValidationError) Error() string {
	switch {
	case len(e.Fields) > 0:
		return fmt.Sprintf("service: %d field(s) failed validation", len(e.Fields))
	case len(e.Company) > 0:
		return e.Company.Error()
	case len(e.Problems) > 0:
		return "service: " + strings.Join(e.Problems, "; ")
	}
	return ErrInvalid.Error()
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

func invalid(format string, args ...any) error {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}
