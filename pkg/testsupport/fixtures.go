// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// SampleSchema returns a form using every field type, with a rule set on
// most of them.
func SampleSchema() model.FormSchema {
	return model.FormSchema{
		ID:        "form-1",
		Title:     "Cadastro de cliente",
		CompanyID: "company-1",
		Fields: []model.FieldDefinition{
			{ID: "name", Type: model.FieldTypeText, Label: "Nome", Validations: model.Rules{
				model.RuleRequired: true, model.RuleMinLength: float64(3), model.RuleMaxLength: float64(60),
			}},
			{ID: "bio", Type: model.FieldTypeTextarea, Label: "Sobre", Validations: model.Rules{model.RuleRows: float64(4)}},
			{ID: "age", Type: model.FieldTypeNumber, Label: "Idade", Validations: model.Rules{
				model.RuleMin: float64(18), model.RuleMax: float64(120),
			}},
			{ID: "email", Type: model.FieldTypeEmail, Label: "E-mail", Validations: model.Rules{
				model.RuleRequired: true, model.RuleCustomDomain: "empresa.com.br",
			}},
			{ID: "phone", Type: model.FieldTypePhone, Label: "Telefone", Validations: model.Rules{model.RuleFormat: "(99) 99999-9999"}},
			{ID: "birth", Type: model.FieldTypeDate, Label: "Nascimento", Validations: model.Rules{model.RuleMaxDate: "2010-12-31"}},
			{ID: "slot", Type: model.FieldTypeTime, Label: "Horário"},
			{ID: "plan", Type: model.FieldTypeSelect, Label: "Plano", Validations: model.Rules{
				model.RuleOptions: []any{"Básico", "Pro"},
			}},
			{ID: "topics", Type: model.FieldTypeMultiSelect, Label: "Interesses", Validations: model.Rules{
				model.RuleOptions: []any{"Go", "SQL", "Web"}, model.RuleMaxSelect: float64(2),
			}},
			{ID: "terms", Type: model.FieldTypeCheckbox, Label: "Aceito os termos", Validations: model.Rules{model.RuleRequired: true}},
			{ID: "channels", Type: model.FieldTypeCheckbox, Label: "Canais", Validations: model.Rules{
				model.RuleOptions: []any{"E-mail", "SMS"},
			}},
			{ID: "size", Type: model.FieldTypeRadio, Label: "Tamanho", Validations: model.Rules{
				model.RuleOptions: []any{"P", "M", "G"},
			}},
			{ID: "doc", Type: model.FieldTypeFile, Label: "Documento", Validations: model.Rules{
				model.RuleAllowedTypes: []any{"image/*", ".pdf"}, model.RuleMaxSize: float64(2),
			}},
			{ID: "sign", Type: model.FieldTypeSignature, Label: "Assinatura"},
			{ID: "cpf", Type: model.FieldTypeCPF, Label: "CPF", Validations: model.Rules{model.RuleValidate: true}},
			{ID: "cnpj", Type: model.FieldTypeCNPJ, Label: "CNPJ"},
			{ID: "cep", Type: model.FieldTypeCEP, Label: "CEP"},
		},
	}
}
