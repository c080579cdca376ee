package render

import (
	"sort"
	"strings"
)

// HiddenField is a hidden input rendered alongside the fill form.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden builds HiddenField entries from a map, ordered by name.
func Hidden(values map[string]string) []HiddenField {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		if strings.TrimSpace(name) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: values[name]})
	}
	return out
}

// MergeHiddenFields combines lists; later entries replace earlier ones with
// the same name while keeping first-seen order.
func MergeHiddenFields(lists ...[]HiddenField) []HiddenField {
	var out []HiddenField
	index := map[string]int{}
	for _, list := range lists {
		for _, field := range list {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				continue
			}
			if pos, ok := index[name]; ok {
				out[pos].Value = field.Value
				continue
			}
			index[name] = len(out)
			out = append(out, HiddenField{Name: name, Value: field.Value})
		}
	}
	return out
}
