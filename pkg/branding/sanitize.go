package branding

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// SanitizeText strips markup from admin-entered text. The result is plain
// text; templates escape it on output.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(trimmed)))
}

// SanitizeSchema returns a copy of schema with its title, labels and option
// lists stripped of markup. Rule values other than options are untouched.
func SanitizeSchema(schema model.FormSchema) model.FormSchema {
	schema.Title = SanitizeText(schema.Title)
	fields := make([]model.FieldDefinition, len(schema.Fields))
	for i, field := range schema.Fields {
		field.Label = SanitizeText(field.Label)
		if field.Validations.Has(model.RuleOptions) {
			field.Validations = field.Validations.Clone()
			options := field.Validations.Strings(model.RuleOptions)
			cleaned := make([]any, 0, len(options))
			for _, option := range options {
				if option = SanitizeText(option); option != "" {
					cleaned = append(cleaned, option)
				}
			}
			field.Validations[model.RuleOptions] = cleaned
		}
		fields[i] = field
	}
	schema.Fields = fields
	if schema.Theme != nil {
		t := *schema.Theme
		t.FontFamily = SanitizeText(t.FontFamily)
		t.LogoURL = strings.TrimSpace(t.LogoURL)
		schema.Theme = &t
	}
	return schema
}
