package html

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

type attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fileView struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// fieldView is what the field partial reads.
type fieldView struct {
	ID        string    `json:"id"`
	ControlID string    `json:"control_id"`
	LabelID   string    `json:"label_id"`
	LabelFor  bool      `json:"label_for"`
	Label     string    `json:"label"`
	Type      string    `json:"type"`
	InputType string    `json:"input_type"`
	Widget    string    `json:"widget"`
	Required  bool      `json:"required"`
	Disabled  bool      `json:"disabled"`
	Value     string    `json:"value"`
	Values    []string  `json:"values"`
	Checked   bool      `json:"checked"`
	Options   []string  `json:"options"`
	Mask      string    `json:"mask,omitempty"`
	Attrs     []attr    `json:"attrs"`
	Errors    []string  `json:"errors"`
	File      *fileView `json:"file,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
}

var inputTypes = map[model.FieldType]string{
	model.FieldTypeNumber: "number",
	model.FieldTypeEmail:  "email",
	model.FieldTypeDate:   "date",
	model.FieldTypeTime:   "time",
	model.FieldTypePhone:  "tel",
}

func buildFields(form model.FormSchema, registry *widgets.Registry, options render.RenderOptions) []fieldView {
	out := make([]fieldView, 0, len(form.Fields))
	for _, field := range form.Fields {
		out = append(out, buildField(field, registry.Resolve(field), options))
	}
	return out
}

func buildField(field model.FieldDefinition, widget string, options render.RenderOptions) fieldView {
	rules := field.Validations
	view := fieldView{
		ID:        field.ID,
		ControlID: controlID(field.ID),
		LabelID:   labelID(field.ID),
		LabelFor:  labelSupportsFor(widget),
		Label:     field.Label,
		Type:      string(field.Type),
		InputType: "text",
		Widget:    widget,
		Required:  rules.Bool(model.RuleRequired),
		Disabled:  options.Mode == render.ModePreview,
		Values:    []string{},
		Options:   rules.Strings(model.RuleOptions),
		Attrs:     []attr{},
		Errors:    options.Errors[field.ID],
	}
	if t, ok := inputTypes[field.Type]; ok {
		view.InputType = t
	}
	if view.Options == nil {
		view.Options = []string{}
	}
	if view.Errors == nil {
		view.Errors = []string{}
	}

	view.Mask = fieldtypes.MaskFor(field)
	if view.Mask != "" {
		view.InputType = "text"
		view.Attrs = append(view.Attrs,
			attr{"maxlength", strconv.Itoa(len(view.Mask))},
			attr{"inputmode", "numeric"},
			attr{"data-mask", view.Mask},
		)
	}
	view.Attrs = append(view.Attrs, ruleAttrs(field)...)

	if field.Type == model.FieldTypeSignature {
		view.Width, view.Height = 400, 200
		if w, ok := rules.Int(model.RuleWidth); ok && w > 0 {
			view.Width = w
		}
		if h, ok := rules.Int(model.RuleHeight); ok && h > 0 {
			view.Height = h
		}
	}

	fillValue(&view, field, options.Values.Value(field.ID))
	return view
}

func ruleAttrs(field model.FieldDefinition) []attr {
	rules := field.Validations
	var out []attr
	number := func(html, rule string) {
		if n, ok := rules.Number(rule); ok {
			out = append(out, attr{html, formatNumber(n)})
		}
	}
	text := func(html, rule string) {
		if s, ok := rules.String(rule); ok && s != "" {
			out = append(out, attr{html, s})
		}
	}

	switch field.Type {
	case model.FieldTypeText, model.FieldTypeTextarea:
		number("minlength", model.RuleMinLength)
		number("maxlength", model.RuleMaxLength)
		if field.Type == model.FieldTypeText {
			text("pattern", model.RulePattern)
		} else {
			number("rows", model.RuleRows)
		}
	case model.FieldTypeNumber:
		number("min", model.RuleMin)
		number("max", model.RuleMax)
		number("step", model.RuleStep)
	case model.FieldTypeDate:
		text("min", model.RuleMinDate)
		text("max", model.RuleMaxDate)
	case model.FieldTypeTime:
		text("min", model.RuleMinTime)
		text("max", model.RuleMaxTime)
	case model.FieldTypeFile:
		if types := rules.Strings(model.RuleAllowedTypes); len(types) > 0 {
			out = append(out, attr{"accept", strings.Join(types, ",")})
		}
	}
	if rules.Has(model.RuleAutoComplete) {
		value := "off"
		if rules.Bool(model.RuleAutoComplete) {
			value = "on"
		}
		out = append(out, attr{"autocomplete", value})
	}
	return out
}

func fillValue(view *fieldView, field model.FieldDefinition, value any) {
	if value == nil {
		if field.Type == model.FieldTypeCheckbox && view.Widget == widgets.WidgetToggle {
			view.Checked = field.Validations.Bool(model.RuleDefaultChecked)
		}
		return
	}
	if file, ok := model.AsFile(value); ok {
		view.File = &fileView{Name: file.Name, Size: file.Size}
		return
	}
	switch v := value.(type) {
	case bool:
		view.Checked = v
	case string:
		view.Value = v
		if view.Mask != "" {
			view.Value = fieldtypes.ApplyMask(view.Mask, v)
		}
		view.Values = []string{v}
	case float64:
		view.Value = formatNumber(v)
	case int:
		view.Value = strconv.Itoa(v)
	default:
		if list := model.ToStrings(v); list != nil {
			view.Values = list
		}
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

type ruleView struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Shape   string   `json:"shape"`
	Input   string   `json:"input"`
	Options []string `json:"options"`
	Value   string   `json:"value"`
	Values  []string `json:"values"`
	Checked bool     `json:"checked"`
}

type editorField struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Type      string     `json:"type"`
	TypeLabel string     `json:"type_label"`
	Known     bool       `json:"known"`
	Rules     []ruleView `json:"rules"`
}

// buildEditor lists each field with the rules its type accepts and the
// values currently set.
func buildEditor(form model.FormSchema) []editorField {
	out := make([]editorField, 0, len(form.Fields))
	for _, field := range form.Fields {
		entry := editorField{
			ID:        field.ID,
			Label:     field.Label,
			Type:      string(field.Type),
			TypeLabel: fieldtypes.Label(field.Type),
			Known:     fieldtypes.Known(field.Type),
			Rules:     []ruleView{},
		}
		defs, err := fieldtypes.RulesFor(field.Type)
		if err == nil {
			for _, def := range defs {
				entry.Rules = append(entry.Rules, buildRule(def, field.Validations))
			}
		}
		out = append(out, entry)
	}
	return out
}

func buildRule(def fieldtypes.RuleDef, rules model.Rules) ruleView {
	view := ruleView{
		Name:    def.Name,
		Label:   def.Label,
		Shape:   string(def.Shape),
		Options: def.Options,
		Values:  []string{},
	}
	if view.Options == nil {
		view.Options = []string{}
	}
	switch def.Shape {
	case fieldtypes.ShapeBoolean:
		view.Input = "checkbox"
		view.Checked = rules.Bool(def.Name)
	case fieldtypes.ShapeNumber:
		view.Input = "number"
		if n, ok := rules.Number(def.Name); ok {
			view.Value = formatNumber(n)
		}
	case fieldtypes.ShapeEnumList:
		view.Input = "checkboxes"
		if list := rules.Strings(def.Name); list != nil {
			view.Values = list
		}
	case fieldtypes.ShapeStringList:
		view.Input = "textarea"
		view.Value = strings.Join(rules.Strings(def.Name), "\n")
	case fieldtypes.ShapeEnum:
		view.Input = "select"
		view.Value, _ = rules.String(def.Name)
	case fieldtypes.ShapeDate, fieldtypes.ShapeTime:
		view.Input = string(def.Shape)
		view.Value, _ = rules.String(def.Name)
	default:
		view.Input = "text"
		view.Value, _ = rules.String(def.Name)
	}
	return view
}
