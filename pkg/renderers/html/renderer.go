// Package html renders forms as server-side HTML: the fill page a user
// answers, the admin preview and the per-field rule editor.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/pongo"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Name is the registry name of this renderer.
const Name = "html"

// HiddenFormID is the hidden input carrying the form id on fill pages.
const HiddenFormID = "form_id"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	widgets          *widgets.Registry
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithWidgets replaces the widget registry.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	widgets   *widgets.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer over the embedded templates unless options
// say otherwise.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithExtension(".html"))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer, widgets: cfg.widgets}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, form model.FormSchema, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mode := render.ParseMode(string(options.Mode))
	options.Mode = mode
	options.Errors = render.MapErrorPayload(options.Errors)
	formErrors := nonNil(slices.Concat(options.FormErrors, options.Errors[""]))
	hidden := render.MergeHiddenFields([]render.HiddenField{{Name: HiddenFormID, Value: form.ID}}, options.Hidden)

	data := map[string]any{
		"form": map[string]any{
			"id":    form.ID,
			"title": form.Title,
		},
		"mode":        string(mode),
		"action":      options.Action,
		"hidden":      hidden,
		"form_errors": formErrors,
		"submitted":   options.Submitted,
		"classes":     classMap(),
		"theme":       buildThemeContext(options.Theme),
	}
	if mode == render.ModeEditor {
		data["fields"] = buildEditor(form)
	} else {
		data["fields"] = buildFields(form, r.widgets, options)
	}
	for name, fn := range render.TemplateFuncs(options) {
		data[name] = fn
	}

	rendered, err := r.templates.RenderTemplate(templateName(options.Theme, mode), data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render %s: %w", mode, err)
	}
	return []byte(rendered), nil
}

// templateName prefers the template the theme maps for the mode.
func templateName(cfg *theme.RendererConfig, mode render.Mode) string {
	if cfg != nil {
		if name := cfg.Partials["forms."+string(mode)]; name != "" {
			return name
		}
	}
	return string(mode) + ".html"
}

type rendererTheme struct {
	Name         string `json:"name"`
	Variant      string `json:"variant"`
	CSSVarsStyle string `json:"css_vars_style,omitempty"`
	Stylesheet   string `json:"stylesheet,omitempty"`
	Logo         string `json:"logo,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL(branding.AssetStylesheet)
		ctx.Logo = cfg.AssetURL(branding.AssetLogo)
	}
	return ctx
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
