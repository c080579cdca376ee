// Package submission decides whether an answer set may be submitted and
// drives the fill session through its editable, submitting and submitted
// states.
package submission

import (
	"log/slog"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// FieldError is the failure of one field.
type FieldError struct {
	FieldID string                 `json:"fieldId"`
	Label   string                 `json:"label,omitempty"`
	Kind    validation.FailureKind `json:"kind"`
	Message string                 `json:"message"`
}

// Option configures a Gate.
type Option func(*Gate)

// WithEngine sets the validation engine.
func WithEngine(engine *validation.Engine) Option {
	return func(g *Gate) {
		if engine != nil {
			g.engine = engine
		}
	}
}

// WithLogger sets the logger used to report unsupported fields.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Gate validates whole answer sets against a schema.
type Gate struct {
	engine *validation.Engine
	logger *slog.Logger
}

// NewGate constructs a Gate backed by the default pt-BR engine.
func NewGate(options ...Option) *Gate {
	g := &Gate{
		engine: validation.New(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Engine returns the validation engine used by the gate.
func (g *Gate) Engine() *validation.Engine {
	return g.engine
}

// CollectErrors validates every field of schema in order and returns one
// entry per failing field. Missing answers count as empty values. Fields whose
// type is not in the catalog are skipped and logged.
func (g *Gate) CollectErrors(schema model.FormSchema, answers model.AnswerSet) []FieldError {
	var errs []FieldError
	for _, field := range schema.Fields {
		if !fieldtypes.Known(field.Type) {
			g.logger.Warn("submission: skipping field with unsupported type",
				slog.String("form_id", schema.ID),
				slog.String("field_id", field.ID),
				slog.String("type", string(field.Type)),
			)
			continue
		}
		result := g.engine.Validate(field, answers.Value(field.ID))
		if result.Valid {
			continue
		}
		errs = append(errs, FieldError{
			FieldID: field.ID,
			Label:   field.Label,
			Kind:    result.Kind,
			Message: result.Message,
		})
	}
	return errs
}

// CanSubmit reports whether CollectErrors finds nothing.
func (g *Gate) CanSubmit(schema model.FormSchema, answers model.AnswerSet) bool {
	return len(g.CollectErrors(schema, answers)) == 0
}

var defaultGate = NewGate()

// CollectErrors runs the default gate.
func CollectErrors(schema model.FormSchema, answers model.AnswerSet) []FieldError {
	return defaultGate.CollectErrors(schema, answers)
}

// CanSubmit runs the default gate.
func CanSubmit(schema model.FormSchema, answers model.AnswerSet) bool {
	return defaultGate.CanSubmit(schema, answers)
}
