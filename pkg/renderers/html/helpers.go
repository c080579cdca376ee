package html

import (
	"sort"
	"strings"
)

func controlID(fieldID string) string {
	trimmed := strings.TrimSpace(fieldID)
	if trimmed == "" {
		return ""
	}
	return "fb-" + trimmed
}

func labelID(fieldID string) string {
	id := controlID(fieldID)
	if id == "" {
		return ""
	}
	return id + "-label"
}

// labelSupportsFor reports whether the widget is a single labelable control.
func labelSupportsFor(widget string) bool {
	switch widget {
	case "checkbox-group", "radio-group", "signature":
		return false
	default:
		return true
	}
}

// cssVarsStyle renders vars as a :root block in key order. Characters that
// could end the declaration or the style element are dropped from values.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		value := cssValue(vars[key])
		if value == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func cssValue(raw string) string {
	if strings.Contains(raw, "data:") || strings.Contains(raw, "://") {
		return ""
	}
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '\\', '\n', '\r':
			return -1
		}
		return r
	}, raw))
}
