package submission

import (
	"log/slog"

	"github.com/goliatone/go-formbuilder/pkg/answers"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// VerifyFiles replaces every file answer of set with the size and type read
// from its data, so the rules run against the content actually sent. Answers
// whose data is missing or malformed are dropped from the returned set and
// reported. set itself is not modified.
func (g *Gate) VerifyFiles(schema model.FormSchema, set model.AnswerSet) (model.AnswerSet, []FieldError) {
	out := set.Clone()
	var errs []FieldError
	for _, field := range schema.Fields {
		if field.Type != model.FieldTypeFile {
			continue
		}
		answer, ok := out[field.ID]
		if !ok {
			continue
		}
		file, ok := model.AsFile(answer.Value)
		if !ok {
			continue
		}
		verified, err := answers.VerifyFile(file)
		if err != nil {
			g.logger.Warn("submission: rejecting file answer",
				slog.String("form_id", schema.ID),
				slog.String("field_id", field.ID),
				slog.String("error", err.Error()),
			)
			delete(out, field.ID)
			result := g.engine.InvalidFile()
			errs = append(errs, FieldError{
				FieldID: field.ID,
				Label:   field.Label,
				Kind:    result.Kind,
				Message: result.Message,
			})
			continue
		}
		answer.Value = verified
		out[field.ID] = answer
	}
	return out, errs
}
