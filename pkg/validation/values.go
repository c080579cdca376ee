package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// IsEmpty reports whether value counts as unanswered for field. A checkbox
// configured with options is a group and is empty when nothing is selected;
// without options it is a single boolean and is empty when false or unset.
// Files are empty when no file was chosen or the chosen file has no bytes.
func IsEmpty(field model.FieldDefinition, value any) bool {
	switch field.Type {
	case model.FieldTypeCheckbox:
		if field.Validations.Has(model.RuleOptions) {
			return listLen(value) == 0
		}
		return !truthy(value)
	case model.FieldTypeMultiSelect:
		return listLen(value) == 0
	case model.FieldTypeFile:
		if file, ok := model.AsFile(value); ok {
			return file.Size <= 0
		}
		return isBlankScalar(value)
	}
	switch v := value.(type) {
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return isBlankScalar(value)
}

func isBlankScalar(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case json.Number:
		return v == ""
	}
	return false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "0", "off", "no":
			return false
		}
		return true
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	}
	if n, ok := model.ToFloat(value); ok {
		return n != 0
	}
	return true
}

func listLen(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case []any:
		return len(v)
	case []string:
		return len(v)
	case string:
		if v == "" {
			return 0
		}
		return 1
	}
	return 1
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(value)
}
