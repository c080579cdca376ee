package fieldtypes

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// MaskFor returns the input mask for field, honouring the phone format rule.
func MaskFor(field model.FieldDefinition) string {
	if field.Type == model.FieldTypePhone {
		if format, ok := field.Validations.String(model.RuleFormat); ok {
			return format
		}
	}
	i, ok := index[field.Type]
	if !ok {
		return ""
	}
	return catalog[i].Mask
}

// ApplyMask formats the digits of value into mask. Extra digits are dropped
// and literal characters are only emitted once a following digit exists.
func ApplyMask(mask, value string) string {
	if mask == "" {
		return value
	}
	digits := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	var b strings.Builder
	next := 0
	for _, m := range mask {
		if next >= len(digits) {
			break
		}
		if m == '9' {
			b.WriteRune(digits[next])
			next++
			continue
		}
		b.WriteRune(m)
	}
	return b.String()
}
