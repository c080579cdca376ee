package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DecodeFields decodes a stored field list. Malformed or non-array payloads
// yield an empty list and a warning on logger.
func DecodeFields(raw []byte, logger *slog.Logger, attrs ...any) []FieldDefinition {
	fields := []FieldDefinition{}
	if isBlank(raw) {
		return fields
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		warn(logger, "model: malformed fields payload", err, attrs)
		return []FieldDefinition{}
	}
	if fields == nil {
		fields = []FieldDefinition{}
	}
	return fields
}

// DecodeTheme decodes a stored theme. Empty, null or malformed payloads yield
// nil; only the malformed case is logged.
func DecodeTheme(raw []byte, logger *slog.Logger, attrs ...any) *ThemeConfig {
	if isBlank(raw) {
		return nil
	}
	var theme *ThemeConfig
	if err := json.Unmarshal(raw, &theme); err != nil {
		warn(logger, "model: malformed theme payload", err, attrs)
		return nil
	}
	return theme
}

// DecodeAnswers decodes a stored answer set. Malformed payloads yield an empty
// set and a warning on logger.
func DecodeAnswers(raw []byte, logger *slog.Logger, attrs ...any) AnswerSet {
	answers := AnswerSet{}
	if isBlank(raw) {
		return answers
	}
	if err := json.Unmarshal(raw, &answers); err != nil {
		warn(logger, "model: malformed answers payload", err, attrs)
		return AnswerSet{}
	}
	if answers == nil {
		answers = AnswerSet{}
	}
	return answers
}

// EncodeFields serialises fields for storage. A nil list encodes as [].
func EncodeFields(fields []FieldDefinition) ([]byte, error) {
	if fields == nil {
		fields = []FieldDefinition{}
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("model: encode fields: %w", err)
	}
	return out, nil
}

// EncodeTheme serialises a theme for storage. A nil theme encodes as nil so
// callers can store SQL NULL.
func EncodeTheme(theme *ThemeConfig) ([]byte, error) {
	if theme == nil {
		return nil, nil
	}
	out, err := json.Marshal(theme)
	if err != nil {
		return nil, fmt.Errorf("model: encode theme: %w", err)
	}
	return out, nil
}

// EncodeAnswers serialises answers for storage.
func EncodeAnswers(answers AnswerSet) ([]byte, error) {
	if answers == nil {
		answers = AnswerSet{}
	}
	out, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("model: encode answers: %w", err)
	}
	return out, nil
}

func isBlank(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func warn(logger *slog.Logger, msg string, err error, attrs []any) {
	if logger == nil {
		logger = slog.Default()
	}
	args := append([]any{slog.Any("error", err)}, attrs...)
	logger.Warn(msg, args...)
}
