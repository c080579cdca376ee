package branding

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Token names carried by every manifest built here. Renderers receive them as
// CSS custom properties prefixed with "--".
const (
	TokenBackground = "background-color"
	TokenPrimary    = "primary-color"
	TokenSecondary  = "secondary-color"
	TokenFontFamily = "font-family"
	TokenFontSize   = "font-size"
	TokenLogo       = "logo-url"

	// AssetStylesheet and AssetLogo are asset keys resolvable via
	// RendererConfig.AssetURL.
	AssetStylesheet = "stylesheet"
	AssetLogo       = "logo"

	// VariantDark swaps the background for a dark surface.
	VariantDark = "dark"

	// DefaultThemeName names the manifest used for forms without a company.
	DefaultThemeName = "default"
)

// ErrThemeNotFound is returned by Selector.Select for unknown manifests.
var ErrThemeNotFound = errors.New("branding: theme not found")

var fontSizes = map[string]string{
	"sm":   "0.875rem",
	"base": "1rem",
	"lg":   "1.125rem",
	"xl":   "1.25rem",
}

// Resolve layers the default palette, company branding and the form's own
// theme, later layers winning for every non-empty attribute.
func Resolve(company *model.Company, form *model.ThemeConfig) model.ThemeConfig {
	out := model.ThemeConfig{
		BackgroundColor: DefaultBackgroundColor,
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		FontFamily:      DefaultFontFamily,
		FontSize:        DefaultFontSize,
	}
	if company != nil {
		overlay(&out, model.ThemeConfig{
			BackgroundColor: company.BackgroundColor,
			PrimaryColor:    company.PrimaryColor,
			SecondaryColor:  company.SecondaryColor,
			LogoURL:         company.LogoURL,
		})
	}
	if form != nil {
		overlay(&out, *form)
	}
	return out
}

func overlay(dst *model.ThemeConfig, src model.ThemeConfig) {
	set := func(target *string, value string, valid func(string) bool) {
		value = strings.TrimSpace(value)
		if value != "" && (valid == nil || valid(value)) {
			*target = value
		}
	}
	set(&dst.BackgroundColor, src.BackgroundColor, ValidColor)
	set(&dst.PrimaryColor, src.PrimaryColor, ValidColor)
	set(&dst.SecondaryColor, src.SecondaryColor, ValidColor)
	set(&dst.FontFamily, src.FontFamily, nil)
	set(&dst.FontSize, src.FontSize, func(s string) bool { _, ok := fontSizes[s]; return ok })
	set(&dst.LogoURL, src.LogoURL, func(s string) bool { return logoProblem(s) == "" })
}

// ThemeName derives the manifest name for a company.
func ThemeName(companyID string) string {
	if strings.TrimSpace(companyID) == "" {
		return DefaultThemeName
	}
	return "company-" + companyID
}

// Manifest builds a go-theme manifest for a resolved theme. Assets resolve
// under assetPrefix.
func Manifest(name string, cfg model.ThemeConfig, assetPrefix string) *theme.Manifest {
	tokens := map[string]string{
		TokenBackground: cfg.BackgroundColor,
		TokenPrimary:    cfg.PrimaryColor,
		TokenSecondary:  cfg.SecondaryColor,
		TokenFontFamily: cfg.FontFamily,
		TokenFontSize:   fontSizes[cfg.FontSize],
	}
	files := map[string]string{AssetStylesheet: "formbuilder.css"}
	if cfg.LogoURL != "" {
		tokens[TokenLogo] = cfg.LogoURL
		files[AssetLogo] = cfg.LogoURL
	}
	return &theme.Manifest{
		Name:    name,
		Version: "1",
		Tokens:  tokens,
		Templates: map[string]string{
			"forms.fill":    "fill.html",
			"forms.preview": "preview.html",
			"forms.editor":  "editor.html",
		},
		Assets: theme.Assets{Prefix: assetPrefix, Files: files},
		Variants: map[string]theme.Variant{
			VariantDark: {
				Tokens: map[string]string{
					TokenBackground: "#111827",
				},
			},
		},
	}
}

// Selector keeps manifests by name and implements theme.ThemeSelector.
type Selector struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector returns a selector holding the default manifest.
func NewSelector(assetPrefix string) *Selector {
	s := &Selector{manifests: map[string]*theme.Manifest{}}
	s.Put(Manifest(DefaultThemeName, Resolve(nil, nil), assetPrefix))
	return s
}

// Put stores or replaces a manifest.
func (s *Selector) Put(m *theme.Manifest) {
	if m == nil || m.Name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[m.Name] = m
}

// Remove drops a manifest. The default manifest cannot be removed.
func (s *Selector) Remove(name string) {
	if name == DefaultThemeName {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.manifests, name)
}

// Select implements theme.ThemeSelector. An empty name selects the default
// manifest; unknown variants are rejected.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = DefaultThemeName
	}
	s.mu.RLock()
	m, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrThemeNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// RendererConfig flattens a selection into what renderers consume: variant
// tokens override base tokens, CSS vars mirror tokens and AssetURL resolves
// keys against the manifest assets.
func RendererConfig(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	m := sel.Manifest
	tokens := maps.Clone(m.Tokens)
	partials := maps.Clone(m.Templates)
	files := maps.Clone(m.Assets.Files)
	prefix := m.Assets.Prefix
	if tokens == nil {
		tokens = map[string]string{}
	}
	if partials == nil {
		partials = map[string]string{}
	}
	if files == nil {
		files = map[string]string{}
	}
	if v, ok := m.Variants[sel.Variant]; ok {
		maps.Copy(tokens, v.Tokens)
		maps.Copy(partials, v.Templates)
		maps.Copy(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if value != "" {
			vars["--"+key] = value
		}
	}

	return &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.Contains(file, "://") || strings.HasPrefix(file, "data:") || prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// ForForm resolves the renderer configuration for schema owned by company.
// Forms with their own theme get a per-form manifest rather than touching
// the company's.
func (s *Selector) ForForm(company *model.Company, schema model.FormSchema, variant string) (*theme.RendererConfig, error) {
	name := DefaultThemeName
	if company != nil {
		name = ThemeName(company.ID)
		s.mu.RLock()
		_, ok := s.manifests[name]
		s.mu.RUnlock()
		if !ok {
			s.Put(Manifest(name, Resolve(company, nil), s.assetPrefix()))
		}
	}
	if schema.Theme != nil {
		name = "form-" + schema.ID
		s.Put(Manifest(name, Resolve(company, schema.Theme), s.assetPrefix()))
	}
	sel, err := s.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(sel), nil
}

func (s *Selector) assetPrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.manifests[DefaultThemeName]; ok {
		return m.Assets.Prefix
	}
	return ""
}
