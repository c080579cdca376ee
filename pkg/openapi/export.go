package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ExtensionFieldType is set on every answer schema with the field's type tag.
const ExtensionFieldType = "x-field-type"

// ErrEmptyForm is returned when the schema has no id to build paths from.
var ErrEmptyForm = errors.New("openapi: form id is required")

// Options tune the exported document.
type Options struct {
	// ServerURL is emitted as the single server entry when set.
	ServerURL string
	// Version is the info.version value. Defaults to "1".
	Version string
}

// Export builds a document with the submission and live-validation
// operations for schema. Fields with unknown types are described as
// free-form values.
func Export(schema model.FormSchema, opts Options) (*openapi3.T, error) {
	if strings.TrimSpace(schema.ID) == "" {
		return nil, ErrEmptyForm
	}
	version := opts.Version
	if version == "" {
		version = "1"
	}
	title := strings.TrimSpace(schema.Title)
	if title == "" {
		title = "Form " + schema.ID
	}

	answers := AnswersSchema(schema)
	submission := openapi3.NewObjectSchema().
		WithProperty("formId", openapi3.NewStringSchema().WithEnum(schema.ID)).
		WithProperty("answers", answers)
	submission.Required = []string{"formId", "answers"}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{
		"Answers":    openapi3.NewSchemaRef("", answers),
		"Submission": openapi3.NewSchemaRef("", submission),
		"FileValue":  openapi3.NewSchemaRef("", fileSchema()),
		"FieldError": openapi3.NewSchemaRef("", fieldErrorSchema()),
	}

	submit := openapi3.NewOperation()
	submit.OperationID = "submitForm"
	submit.Summary = "Submit answers for " + title
	submit.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/Submission", submission)),
	}
	submit.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusCreated, response("Submission stored")),
		openapi3.WithStatus(http.StatusConflict, response("Form already answered by this user")),
		openapi3.WithStatus(http.StatusUnprocessableEntity, errorResponse("Answers failed validation")),
	)

	validate := openapi3.NewOperation()
	validate.OperationID = "validateAnswers"
	validate.Summary = "Validate a partial answer set"
	validate.Parameters = openapi3.Parameters{
		&openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewStringSchema())},
	}
	validate.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/Answers", answers)),
	}
	validate.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Validation outcome").
			WithJSONSchema(openapi3.NewObjectSchema().
				WithProperty("canSubmit", openapi3.NewBoolSchema()).
				WithProperty("errors", openapi3.NewArraySchema().WithItems(fieldErrorSchema())))}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/v1/submissions", &openapi3.PathItem{Post: submit}),
			openapi3.WithPath("/v1/forms/{id}/validate", &openapi3.PathItem{Post: validate}),
		),
		Components: &components,
	}
	if opts.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: opts.ServerURL}}
	}
	return doc, nil
}

// AnswersSchema describes the AnswerSet accepted for schema.
func AnswersSchema(schema model.FormSchema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Title = schema.Title
	var required []string
	for _, field := range schema.Fields {
		value := ValueSchema(field)
		answer := openapi3.NewObjectSchema().
			WithProperty("label", openapi3.NewStringSchema()).
			WithProperty("type", openapi3.NewStringSchema().WithEnum(string(field.Type))).
			WithProperty("value", value)
		answer.Title = field.Label
		answer.Required = []string{"value"}
		answer.Extensions = map[string]any{ExtensionFieldType: string(field.Type)}
		out.WithProperty(field.ID, answer)
		if field.Validations.Bool(model.RuleRequired) {
			required = append(required, field.ID)
		}
	}
	out.Required = required
	return out
}

// ValueSchema maps a field's type and rules onto a JSON schema for its value.
func ValueSchema(field model.FieldDefinition) *openapi3.Schema {
	rules := field.Validations
	switch field.Type {
	case model.FieldTypeText, model.FieldTypeTextarea:
		s := openapi3.NewStringSchema()
		if n, ok := rules.Int(model.RuleMinLength); ok {
			s.WithMinLength(int64(n))
		}
		if n, ok := rules.Int(model.RuleMaxLength); ok {
			s.WithMaxLength(int64(n))
		}
		if field.Type == model.FieldTypeText {
			if pattern, ok := rules.String(model.RulePattern); ok {
				s.WithPattern(pattern)
			}
		}
		return s
	case model.FieldTypeNumber:
		s := openapi3.NewFloat64Schema()
		if n, ok := rules.Number(model.RuleMin); ok {
			s.WithMin(n)
		}
		if n, ok := rules.Number(model.RuleMax); ok {
			s.WithMax(n)
		}
		return s
	case model.FieldTypeEmail:
		return openapi3.NewStringSchema().WithFormat("email")
	case model.FieldTypeDate:
		return openapi3.NewStringSchema().WithFormat("date")
	case model.FieldTypeTime:
		return openapi3.NewStringSchema().WithPattern(`^\d{2}:\d{2}(:\d{2})?$`)
	case model.FieldTypeSelect, model.FieldTypeRadio:
		return enumSchema(rules.Strings(model.RuleOptions))
	case model.FieldTypeMultiSelect:
		s := openapi3.NewArraySchema().WithItems(enumSchema(rules.Strings(model.RuleOptions)))
		if n, ok := rules.Int(model.RuleMinSelect); ok {
			s.WithMinItems(int64(n))
		}
		if n, ok := rules.Int(model.RuleMaxSelect); ok {
			s.WithMaxItems(int64(n))
		}
		return s
	case model.FieldTypeCheckbox:
		if options := rules.Strings(model.RuleOptions); len(options) > 0 {
			return openapi3.NewArraySchema().WithItems(enumSchema(options))
		}
		return openapi3.NewBoolSchema()
	case model.FieldTypeFile:
		return fileSchema()
	case model.FieldTypeSignature:
		s := openapi3.NewStringSchema()
		s.Description = "PNG data URL"
		return s
	case model.FieldTypePhone, model.FieldTypeCPF, model.FieldTypeCNPJ, model.FieldTypeCEP:
		s := openapi3.NewStringSchema()
		if mask := fieldtypes.MaskFor(field); mask != "" {
			s.Description = "Mask " + mask
			s.WithMaxLength(int64(len(mask)))
		}
		return s
	}
	s := &openapi3.Schema{}
	s.Description = "Unsupported field type " + string(field.Type)
	return s
}

func enumSchema(options []string) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	if len(options) == 0 {
		return s
	}
	values := make([]any, len(options))
	for i, option := range options {
		values[i] = option
	}
	return s.WithEnum(values...)
}

func fileSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("size", openapi3.NewInt64Schema().WithMin(0)).
		WithProperty("data", openapi3.NewStringSchema().WithFormat("byte"))
	s.Required = []string{"name", "size", "data"}
	return s
}

func fieldErrorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("fieldId", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
}

func response(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description)}
}

func errorResponse(description string) *openapi3.ResponseRef {
	body := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("code", openapi3.NewStringSchema()).
		WithProperty("fields", openapi3.NewArraySchema().WithItems(fieldErrorSchema()))
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(body)}
}

// Check validates doc with kin-openapi.
func Check(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: validate: %w", err)
	}
	return nil
}

// Load parses a JSON or YAML document, as produced by Marshal.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load: %w", err)
	}
	return doc, nil
}

// Marshal encodes doc as "json" (indented) or "yaml".
func Marshal(doc *openapi3.T, format string) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode: %w", err)
	}
	switch strings.ToLower(format) {
	case "", "json":
		return append(raw, '\n'), nil
	case "yaml", "yml":
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("openapi: encode: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("openapi: unsupported format %q", format)
}
