// Package model defines the form schema, answer and submission types shared by
// the validation engine, the renderers, the store and the HTTP API.
//
// A FormSchema is an ordered list of FieldDefinition values plus an optional
// ThemeConfig. Each field carries a type tag from the closed FieldType
// enumeration and a Rules map holding the validation-rule values chosen for
// that field. Rules keeps unknown keys so older or newer payloads survive a
// load/save round trip; readers use the typed accessors (Bool, Number, Int,
// Strings) which tolerate the loose encodings produced by browsers and JSON
// decoders (numeric strings, json.Number, float64).
//
// Stored JSON columns decode through DecodeFields, DecodeTheme and
// DecodeAnswers, which never fail: malformed payloads degrade to an empty
// value and are reported through the supplied slog.Logger.
package model
