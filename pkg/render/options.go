package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Mode selects what a renderer produces for a form.
type Mode string

const (
	// ModeFill renders the form for a user to answer.
	ModeFill Mode = "fill"
	// ModePreview renders the form as the admin sees it while editing.
	ModePreview Mode = "preview"
	// ModeEditor renders the per-field rule editor.
	ModeEditor Mode = "editor"
)

// ParseMode maps a query value onto a Mode, defaulting to ModeFill.
func ParseMode(raw string) Mode {
	switch Mode(raw) {
	case ModePreview, ModeEditor:
		return Mode(raw)
	}
	return ModeFill
}

// RenderOptions carry per-request data renderers use without changing the
// schema.
type RenderOptions struct {
	Mode Mode
	// Action is the URL the fill form posts to.
	Action string
	// Values pre-populates controls, keyed by field id.
	Values model.AnswerSet
	// Errors surfaces validation feedback keyed by field id.
	Errors map[string][]string
	// FormErrors are messages that do not belong to a single field.
	FormErrors []string
	// Submitted replaces the fill form with the confirmation message.
	Submitted bool
	// Hidden inputs emitted with the form.
	Hidden []HiddenField
	// Theme is the resolved go-theme configuration for the form's company.
	Theme *theme.RendererConfig
	// Locale selects UI strings; Translator overrides the built-in catalog.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
