package submission

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/answers"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// State is the lifecycle state of a fill session.
type State string

const (
	StateEditable     State = "editable"
	StateSubmitting   State = "submitting"
	StateSubmitted    State = "submitted"
	StateSubmitFailed State = "submitFailed"
)

// FieldState is what the session knows about one field. Untouched fields have
// Touched false and a zero Result.
type FieldState struct {
	Touched bool
	Value   any
	Result  validation.Result
}

// PersistFunc hands a validated answer set to storage.
type PersistFunc func(ctx context.Context, answers model.AnswerSet) error

// Session tracks one user filling one form.
type Session struct {
	mu        sync.Mutex
	schema    model.FormSchema
	gate      *Gate
	collector *answers.Collector
	fields    map[string]FieldState
	state     State
	lastErr   error
}

// NewSession starts an editable session. initial pre-fills answers without
// marking fields as touched.
func NewSession(schema model.FormSchema, gate *Gate, initial model.AnswerSet, options ...answers.EncodeOption) *Session {
	if gate == nil {
		gate = defaultGate
	}
	return &Session{
		schema:    schema,
		gate:      gate,
		collector: answers.NewCollector(initial, options...),
		fields:    make(map[string]FieldState, len(schema.Fields)),
		state:     StateEditable,
	}
}

// Schema returns the form being filled.
func (s *Session) Schema() model.FormSchema {
	return s.schema
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the last failed submit.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Change records value for fieldID, marks the field touched and returns its
// validation result. A failed submit is left behind on the first change.
func (s *Session) Change(fieldID string, value any) (validation.Result, error) {
	field, ok := s.schema.Field(fieldID)
	if !ok {
		return validation.Result{}, fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return validation.Result{}, err
	}

	s.collector.Record(field, value)
	result := s.gate.engine.Validate(field, value)
	s.fields[fieldID] = FieldState{Touched: true, Value: value, Result: result}
	return result, nil
}

// ChangeFile starts reading a file answer in the background. The field is
// validated once the read completes; until then Submit refuses to run.
func (s *Session) ChangeFile(ctx context.Context, fieldID, name, mimeType string, r io.Reader) (<-chan error, error) {
	field, ok := s.schema.Field(fieldID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	read := s.collector.RecordFile(ctx, field, name, mimeType, r)
	out := make(chan error, 1)
	go func() {
		err := <-read
		if err == nil {
			// Change records under s.mu, so the collector value read here is
			// the one the field state must reflect.
			s.mu.Lock()
			if !s.collector.IsPending(fieldID) {
				value := s.collector.Answers().Value(fieldID)
				s.fields[fieldID] = FieldState{
					Touched: true,
					Value:   value,
					Result:  s.gate.engine.Validate(field, value),
				}
			}
			s.mu.Unlock()
		}
		out <- err
		close(out)
	}()
	return out, nil
}

// Field returns the state of one field.
func (s *Session) Field(fieldID string) FieldState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[fieldID]
}

// Answers returns a snapshot of the answers recorded so far.
func (s *Session) Answers() model.AnswerSet {
	return s.collector.Answers()
}

// Pending reports whether a file read is in flight.
func (s *Session) Pending() bool {
	return s.collector.Pending() > 0
}

// Errors returns the gate errors for the current answers.
func (s *Session) Errors() []FieldError {
	return s.gate.CollectErrors(s.schema, s.collector.Answers())
}

// CanSubmit reports whether Submit would reach persistence right now.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state != StateEditable && state != StateSubmitFailed {
		return false
	}
	if s.Pending() {
		return false
	}
	return s.gate.CanSubmit(s.schema, s.collector.Answers())
}

// Submit validates every field and, when all pass, hands the answers to
// persist. Validation failures mark every field touched and return an
// *InvalidError. Persistence failures move the session to StateSubmitFailed
// and return an error wrapping both ErrSubmitFailed and the cause; the
// answers are kept and the session accepts edits or another Submit.
func (s *Session) Submit(ctx context.Context, persist PersistFunc) error {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.collector.Pending() > 0 {
		s.mu.Unlock()
		return ErrFilesPending
	}
	current := s.collector.Answers()
	if errs := s.gate.CollectErrors(s.schema, current); len(errs) > 0 {
		s.touchAllLocked(current)
		s.mu.Unlock()
		return &InvalidError{Errors: errs}
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	err := persist(ctx, answers.Restrict(s.schema, current))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateSubmitFailed
		s.lastErr = err
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	s.state = StateSubmitted
	s.lastErr = nil
	return nil
}

func (s *Session) editableLocked() error {
	switch s.state {
	case StateEditable:
		return nil
	case StateSubmitFailed:
		s.state = StateEditable
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotEditable, s.state)
}

func (s *Session) touchAllLocked(current model.AnswerSet) {
	for _, field := range s.schema.Fields {
		value := current.Value(field.ID)
		s.fields[field.ID] = FieldState{
			Touched: true,
			Value:   value,
			Result:  s.gate.engine.Validate(field, value),
		}
	}
}
