package branding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func TestValidateCompany(t *testing.T) {
	valid := model.Company{
		Name:            "Acme",
		BackgroundColor: "#fff",
		PrimaryColor:    "#3B82F6",
		SecondaryColor:  "#1d4ed8",
	}
	if err := ValidateCompany(valid); err != nil {
		t.Fatalf("expected valid company, got %v", err)
	}

	bad := model.Company{
		Name:            "  ab ",
		BackgroundColor: "white",
		PrimaryColor:    "#12345",
		SecondaryColor:  "",
		LogoURL:         "ftp://example.com/logo.png",
	}
	err := ValidateCompany(bad)
	var errs CompanyErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected CompanyErrors, got %v", err)
	}
	want := CompanyErrors{
		"name":            "Nome deve ter no mínimo 3 caracteres",
		"backgroundColor": "Cor de fundo deve estar em formato hexadecimal (ex: #FFFFFF)",
		"primaryColor":    "Cor primária deve estar em formato hexadecimal (ex: #000000)",
		"secondaryColor":  "Cor secundária deve estar em formato hexadecimal (ex: #000000)",
		"logoUrl":         "URL do logo inválida",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateCompany_Logo(t *testing.T) {
	base := NormalizeCompany(model.Company{Name: "Acme"})
	cases := []struct {
		logo string
		want string
	}{
		{"https://cdn.example.com/acme.png", ""},
		{"data:image/png;base64,iVBORw0KGgo=", ""},
		{"data:text/plain;base64,aGk=", "Arquivo deve ser uma imagem"},
		{"data:image/png,raw", "Logo inválido"},
		{"not a url", "URL do logo inválida"},
	}
	for _, tc := range cases {
		c := base
		c.LogoURL = tc.logo
		err := ValidateCompany(c)
		var got string
		if errs, ok := err.(CompanyErrors); ok {
			got = errs["logoUrl"]
		}
		if got != tc.want {
			t.Fatalf("logo %q: got %q want %q", tc.logo, got, tc.want)
		}
	}
}

func TestNormalizeCompanyFillsDefaults(t *testing.T) {
	got := NormalizeCompany(model.Company{Name: " <b>Acme</b> ", PrimaryColor: "#000"})
	want := model.Company{
		Name:            "Acme",
		BackgroundColor: DefaultBackgroundColor,
		PrimaryColor:    "#000",
		SecondaryColor:  DefaultSecondaryColor,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"Plain":                             "Plain",
		"<script>alert(1)</script>Nome":     "Nome",
		"  Tom & Jerry ":                    "Tom & Jerry",
		`<a href="javascript:x">E-mail</a>`: "E-mail",
		"":                                  "",
	}
	for in, want := range cases {
		if got := SanitizeText(in); got != want {
			t.Fatalf("SanitizeText(%q) = %q want %q", in, got, want)
		}
	}
}

func TestSanitizeSchemaLeavesInputUntouched(t *testing.T) {
	schema := model.FormSchema{
		Title: "<i>Cadastro</i>",
		Fields: []model.FieldDefinition{{
			ID:    "color",
			Type:  model.FieldTypeSelect,
			Label: "<b>Cor</b>",
			Validations: model.Rules{
				model.RuleOptions:  []any{"Azul", "<img src=x>", "Verde"},
				model.RuleRequired: true,
			},
		}},
	}

	got := SanitizeSchema(schema)
	if got.Title != "Cadastro" || got.Fields[0].Label != "Cor" {
		t.Fatalf("text not sanitised: %+v", got)
	}
	if diff := cmp.Diff([]any{"Azul", "Verde"}, got.Fields[0].Validations[model.RuleOptions]); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if schema.Fields[0].Label != "<b>Cor</b>" {
		t.Fatalf("input schema mutated")
	}
	if len(schema.Fields[0].Validations[model.RuleOptions].([]any)) != 3 {
		t.Fatalf("input options mutated")
	}
}

func TestResolveLayers(t *testing.T) {
	company := &model.Company{ID: "c1", PrimaryColor: "#111111", LogoURL: "https://x.test/logo.png"}
	form := &model.ThemeConfig{PrimaryColor: "#222222", FontSize: "xl", SecondaryColor: "bogus"}

	got := Resolve(company, form)
	want := model.ThemeConfig{
		BackgroundColor: DefaultBackgroundColor,
		PrimaryColor:    "#222222",
		SecondaryColor:  DefaultSecondaryColor,
		FontFamily:      DefaultFontFamily,
		FontSize:        "xl",
		LogoURL:         "https://x.test/logo.png",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectorRendererConfig(t *testing.T) {
	sel := NewSelector("/assets")
	company := &model.Company{ID: "c1", PrimaryColor: "#abcdef", LogoURL: "https://x.test/l.png"}

	cfg, err := sel.ForForm(company, model.FormSchema{ID: "f1", CompanyID: "c1"}, "")
	if err != nil {
		t.Fatalf("for form: %v", err)
	}
	if cfg.Theme != "company-c1" {
		t.Fatalf("theme name = %q", cfg.Theme)
	}
	if cfg.CSSVars["--primary-color"] != "#abcdef" {
		t.Fatalf("css vars = %v", cfg.CSSVars)
	}
	if cfg.CSSVars["--font-size"] != "1rem" {
		t.Fatalf("font size var = %q", cfg.CSSVars["--font-size"])
	}
	if got := cfg.AssetURL(AssetStylesheet); got != "/assets/formbuilder.css" {
		t.Fatalf("stylesheet url = %q", got)
	}
	if got := cfg.AssetURL(AssetLogo); got != "https://x.test/l.png" {
		t.Fatalf("logo url = %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("missing asset url = %q", got)
	}
	if cfg.Partials["forms.fill"] != "fill.html" {
		t.Fatalf("partials = %v", cfg.Partials)
	}
}

func TestSelectorVariantAndFormTheme(t *testing.T) {
	sel := NewSelector("")
	schema := model.FormSchema{ID: "f9", Theme: &model.ThemeConfig{PrimaryColor: "#000000"}}

	cfg, err := sel.ForForm(nil, schema, VariantDark)
	if err != nil {
		t.Fatalf("for form: %v", err)
	}
	if cfg.Theme != "form-f9" || cfg.Variant != VariantDark {
		t.Fatalf("selection = %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens[TokenBackground] != "#111827" {
		t.Fatalf("variant token not applied: %v", cfg.Tokens)
	}
	if cfg.Tokens[TokenPrimary] != "#000000" {
		t.Fatalf("form token not applied: %v", cfg.Tokens)
	}
	if got := cfg.AssetURL(AssetStylesheet); got != "formbuilder.css" {
		t.Fatalf("stylesheet url without prefix = %q", got)
	}
}

func TestSelectorUnknown(t *testing.T) {
	sel := NewSelector("")
	if _, err := sel.Select("nope", ""); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := sel.Select("", "neon"); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound for variant, got %v", err)
	}
	sel.Remove(DefaultThemeName)
	if _, err := sel.Select("", ""); err != nil {
		t.Fatalf("default manifest must survive Remove: %v", err)
	}
}
