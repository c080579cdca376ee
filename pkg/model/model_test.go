package model

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormSchema_JSONRoundTrip(t *testing.T) {
	schema := FormSchema{
		Title:     "Cadastro",
		CompanyID: "c-1",
		Fields: []FieldDefinition{
			{ID: "f1", Type: FieldTypeText, Label: "Nome", Validations: Rules{
				RuleRequired:  true,
				RuleMinLength: float64(3),
				"legacyHint":  "kept",
			}},
			{ID: "f2", Type: FieldTypeMultiSelect, Label: "Cores", Validations: Rules{
				RuleOptions:   []any{"azul", "verde"},
				RuleMaxSelect: float64(1),
			}},
		},
		Theme: &ThemeConfig{PrimaryColor: "#3b82f6", FontSize: "lg"},
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got FormSchema
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(schema, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFields_DegradesOnMalformedPayload(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got := DecodeFields([]byte(`{"not":"a list"`), logger, "form_id", "f-9")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
	if !strings.Contains(buf.String(), "malformed fields payload") || !strings.Contains(buf.String(), "f-9") {
		t.Fatalf("expected warning with attrs, got %q", buf.String())
	}
}

func TestDecodeTheme_NullAndMalformed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if theme := DecodeTheme([]byte("null"), logger); theme != nil {
		t.Fatalf("expected nil theme for null, got %#v", theme)
	}
	if buf.Len() != 0 {
		t.Fatalf("null theme should not log, got %q", buf.String())
	}
	if theme := DecodeTheme([]byte("[1,2"), logger); theme != nil {
		t.Fatalf("expected nil theme for malformed payload, got %#v", theme)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected warning for malformed theme")
	}
}

func TestDecodeAnswers(t *testing.T) {
	got := DecodeAnswers([]byte(`{"f1":{"label":"Nome","type":"text","value":"Ana"}}`), nil)
	want := AnswerSet{"f1": {Label: "Nome", Type: FieldTypeText, Value: "Ana"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	if got := DecodeAnswers([]byte("oops"), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))); len(got) != 0 || got == nil {
		t.Fatalf("expected empty set, got %#v", got)
	}
}

func TestEncodeTheme_NilIsNull(t *testing.T) {
	raw, err := EncodeTheme(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if raw != nil {
		t.Fatalf("expected nil bytes, got %q", raw)
	}
	fields, err := EncodeFields(nil)
	if err != nil {
		t.Fatalf("encode fields: %v", err)
	}
	if string(fields) != "[]" {
		t.Fatalf("expected [], got %s", fields)
	}
}

func TestRules_Accessors(t *testing.T) {
	rules := Rules{
		"required":  "true",
		"minLength": "3",
		"max":       json.Number("10.5"),
		"empty":     "",
		"options":   []any{"a", " b ", "", float64(3)},
		"domains":   "acme.com, example.org",
	}

	if !rules.Bool("required") {
		t.Fatalf("expected required to be true")
	}
	if n, ok := rules.Int("minLength"); !ok || n != 3 {
		t.Fatalf("minLength = %d, %v", n, ok)
	}
	if n, ok := rules.Number("max"); !ok || n != 10.5 {
		t.Fatalf("max = %v, %v", n, ok)
	}
	if _, ok := rules.Number("empty"); ok {
		t.Fatalf("empty string must read as unset")
	}
	for _, raw := range []any{"Inf", "-Infinity", "+inf", "NaN", "1e400", math.Inf(1), float32(math.Inf(-1)), math.NaN(), json.Number("1e400")} {
		if n, ok := ToFloat(raw); ok {
			t.Fatalf("ToFloat(%v) = %v, want rejected", raw, n)
		}
	}
	if rules.Has("empty") {
		t.Fatalf("empty string must not count as set")
	}
	if diff := cmp.Diff([]string{"a", "b", "3"}, rules.Strings("options")); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"acme.com", "example.org"}, rules.Strings("domains")); diff != "" {
		t.Fatalf("domains mismatch (-want +got):\n%s", diff)
	}
}

func TestAsFile(t *testing.T) {
	file, ok := AsFile(map[string]any{"name": "a.pdf", "type": "application/pdf", "size": float64(2048)})
	if !ok {
		t.Fatalf("expected file")
	}
	if diff := cmp.Diff(FileValue{Name: "a.pdf", Type: "application/pdf", Size: 2048}, file); diff != "" {
		t.Fatalf("file mismatch (-want +got):\n%s", diff)
	}
	if _, ok := AsFile("nope"); ok {
		t.Fatalf("string must not decode as file")
	}
}
