// Package branding turns company branding and per-form theme settings into
// go-theme configurations and validates/sanitises what admins type in.
package branding

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Default palette used when neither the company nor the form sets a color.
const (
	DefaultBackgroundColor = "#ffffff"
	DefaultPrimaryColor    = "#3b82f6"
	DefaultSecondaryColor  = "#1d4ed8"
	DefaultFontFamily      = "Arial"
	DefaultFontSize        = "base"

	// MaxLogoBytes bounds inline (data URL) logos.
	MaxLogoBytes = 5 * 1024 * 1024
)

var hexColor = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// ValidColor reports whether s is a #RGB or #RRGGBB color.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

// CompanyErrors maps company attribute names to a message.
type CompanyErrors map[string]string

func (e CompanyErrors) Error() string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e[key])
	}
	return "branding: invalid company: " + strings.Join(parts, "; ")
}

// NormalizeCompany trims text, sanitises the name and fills empty colors with
// the default palette.
func NormalizeCompany(c model.Company) model.Company {
	c.Name = SanitizeText(c.Name)
	c.LogoURL = strings.TrimSpace(c.LogoURL)
	c.BackgroundColor = orDefault(c.BackgroundColor, DefaultBackgroundColor)
	c.PrimaryColor = orDefault(c.PrimaryColor, DefaultPrimaryColor)
	c.SecondaryColor = orDefault(c.SecondaryColor, DefaultSecondaryColor)
	return c
}

// ValidateCompany checks a company's attributes. It returns nil or a
// CompanyErrors value.
func ValidateCompany(c model.Company) error {
	errs := CompanyErrors{}

	name := strings.TrimSpace(c.Name)
	switch {
	case name == "":
		errs["name"] = "Nome é obrigatório"
	case len([]rune(name)) < 3:
		errs["name"] = "Nome deve ter no mínimo 3 caracteres"
	}

	if !ValidColor(c.BackgroundColor) {
		errs["backgroundColor"] = "Cor de fundo deve estar em formato hexadecimal (ex: #FFFFFF)"
	}
	if !ValidColor(c.PrimaryColor) {
		errs["primaryColor"] = "Cor primária deve estar em formato hexadecimal (ex: #000000)"
	}
	if !ValidColor(c.SecondaryColor) {
		errs["secondaryColor"] = "Cor secundária deve estar em formato hexadecimal (ex: #000000)"
	}
	if c.LogoURL != "" {
		if problem := logoProblem(c.LogoURL); problem != "" {
			errs["logoUrl"] = problem
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// logoProblem accepts http(s) URLs and base64 image data URLs up to
// MaxLogoBytes, returning a message for anything else.
func logoProblem(raw string) string {
	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return "Logo inválido"
		}
		if !strings.HasPrefix(meta, "image/") {
			return "Arquivo deve ser uma imagem"
		}
		if base64.StdEncoding.DecodedLen(len(payload)) > MaxLogoBytes {
			return "Imagem deve ter no máximo 5MB"
		}
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "URL do logo inválida"
	}
	return ""
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
