package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Rules holds the validation-rule values of a field keyed by rule name.
// Values keep whatever JSON shape they were decoded from; use the accessors to
// read them.
type Rules map[string]any

// Has reports whether name is set to a non-empty value.
func (r Rules) Has(name string) bool {
	if r == nil {
		return false
	}
	switch v := r[name].(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	default:
		return true
	}
}

// Bool reads a boolean rule. Strings "true"/"1"/"on" and non-zero numbers
// count as true.
func (r Rules) Bool(name string) bool {
	if r == nil {
		return false
	}
	switch v := r[name].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "on", "yes":
			return true
		}
		return false
	default:
		if n, ok := toFloat(v); ok {
			return n != 0
		}
	}
	return false
}

// Number reads a numeric rule. An empty string or a missing key reports unset.
func (r Rules) Number(name string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	return toFloat(r[name])
}

// Int reads a numeric rule truncated toward zero.
func (r Rules) Int(name string) (int, bool) {
	n, ok := r.Number(name)
	if !ok {
		return 0, false
	}
	return int(math.Trunc(n)), true
}

// String reads a textual rule. Numbers are formatted without trailing zeros.
func (r Rules) String(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	switch v := r[name].(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed, trimmed != ""
	case nil:
		return "", false
	default:
		if n, ok := toFloat(v); ok {
			return strconv.FormatFloat(n, 'f', -1, 64), true
		}
	}
	return "", false
}

// Strings reads a list rule. A single string is split on commas.
func (r Rules) Strings(name string) []string {
	if r == nil {
		return nil
	}
	return ToStrings(r[name])
}

// Clone returns a shallow copy of the rule map.
func (r Rules) Clone() Rules {
	if r == nil {
		return nil
	}
	out := make(Rules, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ToStrings converts a loosely typed list value into trimmed, non-empty
// strings.
func ToStrings(value any) []string {
	var raw []string
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		raw = v
	case []any:
		raw = make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				raw = append(raw, s)
			case nil:
			default:
				if n, ok := toFloat(s); ok {
					raw = append(raw, strconv.FormatFloat(n, 'f', -1, 64))
				}
			}
		}
	case string:
		raw = strings.Split(v, ",")
	default:
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ToFloat coerces JSON-ish numeric values (float64, ints, json.Number and
// numeric strings) to float64. NaN and infinities are rejected.
func ToFloat(value any) (float64, bool) {
	return toFloat(value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, finite(v)
	case float32:
		return float64(v), finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil && finite(n)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || !finite(n) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
