// Package formbuilder exposes the pieces most callers need without wiring the
// packages by hand: rendering a form to HTML and checking an answer set.
package formbuilder

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// RenderOptions aliases render.RenderOptions for callers that only import the
// root package.
type RenderOptions = render.RenderOptions

// FieldError aliases submission.FieldError.
type FieldError = submission.FieldError

// GenerateHTML renders form with the built-in HTML renderer. When company is
// non-nil and options carry no theme, the company branding is resolved into
// one using assetPrefix for the stylesheet URL.
func GenerateHTML(ctx context.Context, form model.FormSchema, company *model.Company, assetPrefix string, options RenderOptions) ([]byte, error) {
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	if options.Theme == nil && company != nil {
		cfg, err := branding.NewSelector(assetPrefix).ForForm(company, form, "")
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}
	return renderer.Render(ctx, form, options)
}

// Validate runs every field of form against answers and returns the failures
// with messages in locale.
func Validate(form model.FormSchema, answers model.AnswerSet, locale string) []FieldError {
	gate := submission.NewGate(submission.WithEngine(validation.New(validation.WithLocale(locale))))
	return gate.CollectErrors(form, answers)
}

// EmbeddedTemplates exposes the HTML renderer templates so callers can copy
// or override them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheet served next to rendered forms.
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
