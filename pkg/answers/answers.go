// Package answers accumulates the answers of a fill session keyed by field id.
// Every answer carries the label and type of its field as they were when the
// answer was recorded, so stored submissions stay readable after the form
// changes.
package answers

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Record returns a copy of set with the answer for fieldID replaced. The input
// set is not modified and no validation happens here.
func Record(set model.AnswerSet, fieldID string, value any, label string, typ model.FieldType) model.AnswerSet {
	out := set.Clone()
	out[fieldID] = model.Answer{Label: label, Type: typ, Value: value}
	return out
}

// RecordField is Record with label and type taken from field.
func RecordField(set model.AnswerSet, field model.FieldDefinition, value any) model.AnswerSet {
	return Record(set, field.ID, value, field.Label, field.Type)
}

// Restrict returns the answers whose ids belong to schema, in a new set.
// Answers for fields no longer in the form are dropped.
func Restrict(schema model.FormSchema, set model.AnswerSet) model.AnswerSet {
	out := make(model.AnswerSet, len(schema.Fields))
	for _, field := range schema.Fields {
		if answer, ok := set[field.ID]; ok {
			out[field.ID] = answer
		}
	}
	return out
}
