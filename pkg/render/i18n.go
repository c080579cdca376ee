package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrMissingTranslation is returned by translators that do not know a key.
var ErrMissingTranslation = errors.New("render: missing translation")

// Translator resolves UI strings for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, err error) string

// Catalog is a Translator backed by static maps, keyed locale then key.
// Values may contain fmt verbs consumed by args.
type Catalog map[string]map[string]string

// Translate implements Translator.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	messages, ok := c[validation.NormalizeLocale(locale)]
	if !ok {
		return "", fmt.Errorf("%w: locale %q", ErrMissingTranslation, locale)
	}
	value, ok := messages[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(value, args...), nil
	}
	return value, nil
}

// DefaultCatalog holds the strings the built-in renderers emit.
var DefaultCatalog = Catalog{
	validation.LocalePtBR: {
		"form.submit":       "Enviar",
		"form.submitting":   "Enviando...",
		"form.submitted":    "Formulário enviado com sucesso!",
		"form.already":      "Você já respondeu este formulário.",
		"form.fix_errors":   "Corrija os erros antes de enviar.",
		"form.empty":        "Este formulário ainda não possui campos.",
		"form.required":     "obrigatório",
		"form.select":       "Selecione...",
		"form.yes":          "Sim",
		"form.no":           "Não",
		"form.file.current": "Arquivo atual: %s",
		"editor.title":      "Regras de validação",
		"editor.no_rules":   "Este tipo de campo não possui regras configuráveis.",
		"editor.type":       "Tipo",
		"preview.title":     "Pré-visualização",
		"tui.retry":         "Corrija os campos e tente novamente.",
		"tui.aborted":       "Preenchimento cancelado.",
		"tui.review":        "Revisar respostas antes de enviar?",
	},
	validation.LocaleEN: {
		"form.submit":       "Submit",
		"form.submitting":   "Submitting...",
		"form.submitted":    "Form submitted successfully!",
		"form.already":      "You have already answered this form.",
		"form.fix_errors":   "Fix the errors before submitting.",
		"form.empty":        "This form has no fields yet.",
		"form.required":     "required",
		"form.select":       "Select...",
		"form.yes":          "Yes",
		"form.no":           "No",
		"form.file.current": "Current file: %s",
		"editor.title":      "Validation rules",
		"editor.no_rules":   "This field type has no configurable rules.",
		"editor.type":       "Type",
		"preview.title":     "Preview",
		"tui.retry":         "Fix the fields and try again.",
		"tui.aborted":       "Filling cancelled.",
		"tui.review":        "Review answers before submitting?",
	},
}

// Translate resolves key using the options' translator, falling back to the
// built-in catalog, then to the handler, then to the key itself.
func Translate(options RenderOptions, key string, args ...any) string {
	locale := validation.NormalizeLocale(options.Locale)
	if options.Translator != nil {
		if value, err := options.Translator.Translate(locale, key, args...); err == nil && value != "" {
			return value
		}
	}
	value, err := DefaultCatalog.Translate(locale, key, args...)
	if err == nil {
		return value
	}
	if options.OnMissing != nil {
		return options.OnMissing(locale, key, err)
	}
	return key
}

// TemplateFuncs exposes translation helpers to template engines as "t" and
// "current_locale".
func TemplateFuncs(options RenderOptions) map[string]any {
	locale := validation.NormalizeLocale(options.Locale)
	return map[string]any{
		"t": func(key string, args ...any) string {
			return Translate(options, strings.TrimSpace(key), args...)
		},
		"current_locale": func() string { return locale },
	}
}
