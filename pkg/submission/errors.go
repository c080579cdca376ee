package submission

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotEditable is returned when the session is submitting or done.
	ErrNotEditable = errors.New("submission: session is not editable")
	// ErrFilesPending is returned when a file read is still in flight.
	ErrFilesPending = errors.New("submission: file upload still pending")
	// ErrUnknownField is returned for ids that are not in the schema.
	ErrUnknownField = errors.New("submission: unknown field")
	// ErrSubmitFailed wraps persistence failures. The session returns to an
	// editable state with its answers intact.
	ErrSubmitFailed = errors.New("submission: submit failed")
)

// InvalidError carries the field errors that blocked a submit.
type InvalidError struct {
	Errors []FieldError
}

func (e *InvalidError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.FieldID, fe.Message))
	}
	return "submission: invalid answers: " + strings.Join(parts, "; ")
}
