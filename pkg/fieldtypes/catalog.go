// Package fieldtypes is the catalog of field types a form may use and the
// validation rules each type accepts. The catalog is static; every consumer
// (editor, fill renderers, validation, HTTP catalog endpoint) reads the same
// definitions from here.
package fieldtypes

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrUnknownType is returned for tags outside the catalog.
var ErrUnknownType = errors.New("fieldtypes: unknown field type")

// Shape is the input kind used to edit a rule value.
type Shape string

const (
	ShapeBoolean    Shape = "boolean"
	ShapeNumber     Shape = "number"
	ShapeText       Shape = "text"
	ShapeDate       Shape = "date"
	ShapeTime       Shape = "time"
	ShapeEnum       Shape = "enum"
	ShapeEnumList   Shape = "enumList"
	ShapeStringList Shape = "stringList"
)

// RuleDef describes one rule applicable to a field type.
type RuleDef struct {
	Name    string   `json:"name" yaml:"name"`
	Label   string   `json:"label" yaml:"label"`
	Shape   Shape    `json:"shape" yaml:"shape"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// TypeDef describes a field type.
type TypeDef struct {
	Type  model.FieldType `json:"type" yaml:"type"`
	Label string          `json:"label" yaml:"label"`
	// Mask is the input mask applied by fill renderers, using 9 for a digit.
	Mask  string    `json:"mask,omitempty" yaml:"mask,omitempty"`
	Rules []RuleDef `json:"rules" yaml:"rules"`
}

// Phone formats offered by the phone rule set.
const (
	PhoneLandline = "(99) 9999-9999"
	PhoneMobile   = "(99) 99999-9999"
)

var required = RuleDef{Name: model.RuleRequired, Label: "Obrigatório", Shape: ShapeBoolean}

var catalog = []TypeDef{
	{
		Type:  model.FieldTypeText,
		Label: "Texto",
		Rules: []RuleDef{
			required,
			{Name: model.RuleMinLength, Label: "Comprimento mínimo", Shape: ShapeNumber},
			{Name: model.RuleMaxLength, Label: "Comprimento máximo", Shape: ShapeNumber},
			{Name: model.RulePattern, Label: "Expressão regular", Shape: ShapeText},
		},
	},
	{
		Type:  model.FieldTypeTextarea,
		Label: "Área de Texto",
		Rules: []RuleDef{
			required,
			{Name: model.RuleMinLength, Label: "Comprimento mínimo", Shape: ShapeNumber},
			{Name: model.RuleMaxLength, Label: "Comprimento máximo", Shape: ShapeNumber},
			{Name: model.RuleRows, Label: "Número de linhas", Shape: ShapeNumber},
		},
	},
	{
		Type:  model.FieldTypeNumber,
		Label: "Número",
		Rules: []RuleDef{
			required,
			{Name: model.RuleMin, Label: "Valor mínimo", Shape: ShapeNumber},
			{Name: model.RuleMax, Label: "Valor máximo", Shape: ShapeNumber},
			{Name: model.RuleStep, Label: "Incremento", Shape: ShapeNumber},
		},
	},
	{
		Type:  model.FieldTypeEmail,
		Label: "Email",
		Rules: []RuleDef{
			required,
			{Name: model.RuleCustomDomain, Label: "Domínio permitido", Shape: ShapeText},
		},
	},
	{
		Type:  model.FieldTypePhone,
		Label: "Telefone",
		Mask:  PhoneMobile,
		Rules: []RuleDef{
			required,
			{Name: model.RuleFormat, Label: "Formato", Shape: ShapeEnum, Options: []string{PhoneLandline, PhoneMobile}},
		},
	},
	{
		Type:  model.FieldTypeDate,
		Label: "Data",
		Rules: []RuleDef{
			required,
			{Name: model.RuleMinDate, Label: "Data mínima", Shape: ShapeDate},
			{Name: model.RuleMaxDate, Label: "Data máxima", Shape: ShapeDate},
		},
	},
	{
		Type:  model.FieldTypeTime,
		Label: "Hora",
		Rules: []RuleDef{
			required,
			{Name: model.RuleMinTime, Label: "Hora mínima", Shape: ShapeTime},
			{Name: model.RuleMaxTime, Label: "Hora máxima", Shape: ShapeTime},
		},
	},
	{
		Type:  model.FieldTypeSelect,
		Label: "Seleção",
		Rules: []RuleDef{
			required,
			{Name: model.RuleOptions, Label: "Opções", Shape: ShapeStringList},
		},
	},
	{
		Type:  model.FieldTypeMultiSelect,
		Label: "Múltipla Escolha",
		Rules: []RuleDef{
			required,
			{Name: model.RuleOptions, Label: "Opções", Shape: ShapeStringList},
			{Name: model.RuleMinSelect, Label: "Mínimo de seleções", Shape: ShapeNumber},
			{Name: model.RuleMaxSelect, Label: "Máximo de seleções", Shape: ShapeNumber},
		},
	},
	{
		Type:  model.FieldTypeCheckbox,
		Label: "Checkbox",
		Rules: []RuleDef{
			required,
			{Name: model.RuleDefaultChecked, Label: "Marcado por padrão", Shape: ShapeBoolean},
		},
	},
	{
		Type:  model.FieldTypeRadio,
		Label: "Radio",
		Rules: []RuleDef{
			required,
			{Name: model.RuleOptions, Label: "Opções", Shape: ShapeStringList},
		},
	},
	{
		Type:  model.FieldTypeFile,
		Label: "Arquivo",
		Rules: []RuleDef{
			required,
			{Name: model.RuleMaxSize, Label: "Tamanho máximo (MB)", Shape: ShapeNumber},
			{Name: model.RuleAllowedTypes, Label: "Tipos permitidos", Shape: ShapeEnumList, Options: []string{"image/*", "application/pdf", ".doc,.docx", ".xls,.xlsx"}},
		},
	},
	{
		Type:  model.FieldTypeSignature,
		Label: "Assinatura",
		Rules: []RuleDef{
			required,
			{Name: model.RuleWidth, Label: "Largura", Shape: ShapeNumber},
			{Name: model.RuleHeight, Label: "Altura", Shape: ShapeNumber},
		},
	},
	{
		Type:  model.FieldTypeCPF,
		Label: "CPF",
		Mask:  "999.999.999-99",
		Rules: []RuleDef{
			required,
			{Name: model.RuleValidate, Label: "Validar número", Shape: ShapeBoolean},
		},
	},
	{
		Type:  model.FieldTypeCNPJ,
		Label: "CNPJ",
		Mask:  "99.999.999/9999-99",
		Rules: []RuleDef{
			required,
			{Name: model.RuleValidate, Label: "Validar número", Shape: ShapeBoolean},
		},
	},
	{
		Type:  model.FieldTypeCEP,
		Label: "CEP",
		Mask:  "99999-999",
		Rules: []RuleDef{
			required,
			{Name: model.RuleAutoComplete, Label: "Autocompletar endereço", Shape: ShapeBoolean},
		},
	},
}

var index = func() map[model.FieldType]int {
	out := make(map[model.FieldType]int, len(catalog))
	for i, def := range catalog {
		out[def.Type] = i
	}
	return out
}()

// Types returns every type definition in catalog order.
func Types() []TypeDef {
	out := make([]TypeDef, len(catalog))
	for i, def := range catalog {
		out[i] = def.clone()
	}
	return out
}

// Lookup returns the definition of t.
func Lookup(t model.FieldType) (TypeDef, error) {
	i, ok := index[t]
	if !ok {
		return TypeDef{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return catalog[i].clone(), nil
}

// RulesFor returns the ordered rule definitions applicable to t.
func RulesFor(t model.FieldType) ([]RuleDef, error) {
	def, err := Lookup(t)
	if err != nil {
		return nil, err
	}
	return def.Rules, nil
}

// Known reports whether t is in the catalog.
func Known(t model.FieldType) bool {
	_, ok := index[t]
	return ok
}

// Label returns the display label of t, or the tag itself when unknown.
func Label(t model.FieldType) string {
	if i, ok := index[t]; ok {
		return catalog[i].Label
	}
	return string(t)
}

// Applies reports whether rule is defined for t.
func Applies(t model.FieldType, rule string) bool {
	i, ok := index[t]
	if !ok {
		return false
	}
	for _, def := range catalog[i].Rules {
		if def.Name == rule {
			return true
		}
	}
	return false
}

func (d TypeDef) clone() TypeDef {
	out := d
	out.Rules = make([]RuleDef, len(d.Rules))
	for i, rule := range d.Rules {
		rule.Options = append([]string(nil), rule.Options...)
		out.Rules[i] = rule
	}
	return out
}
