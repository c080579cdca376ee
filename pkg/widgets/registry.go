// Package widgets picks the input control a renderer draws for a field.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Built-in widget identifiers.
const (
	WidgetInput         = "input"
	WidgetTextarea      = "textarea"
	WidgetMasked        = "masked"
	WidgetToggle        = "toggle"
	WidgetCheckboxGroup = "checkbox-group"
	WidgetRadioGroup    = "radio-group"
	WidgetSelect        = "select"
	WidgetMultiSelect   = "multi-select"
	WidgetFile          = "file"
	WidgetSignature     = "signature"
)

// HintKey lets a form author force a widget through the field's rule map.
// The validation engine ignores it since no field type declares it.
const HintKey = "widget"

// Matcher decides whether a widget should handle field.
type Matcher func(field model.FieldDefinition) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry resolves widgets from explicit hints first, then from matchers in
// descending priority. Ties keep registration order. Fields nothing matches
// fall back to WidgetInput.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry returns a registry with the built-in matchers.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher. Later registrations with the same priority lose to
// earlier ones.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	name = strings.TrimSpace(name)
	if r == nil || matcher == nil || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{name: name, priority: priority, match: matcher, order: len(r.rules)})
	sort.SliceStable(r.rules, func(i, j int) bool {
		if r.rules[i].priority == r.rules[j].priority {
			return r.rules[i].order < r.rules[j].order
		}
		return r.rules[i].priority > r.rules[j].priority
	})
}

// Resolve returns the widget for field.
func (r *Registry) Resolve(field model.FieldDefinition) string {
	if hint, ok := field.Validations.String(HintKey); ok {
		return hint
	}
	if r != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for _, entry := range r.rules {
			if entry.match(field) {
				return entry.name
			}
		}
	}
	return WidgetInput
}

// ResolveAll maps every field id of schema to its widget.
func (r *Registry) ResolveAll(schema model.FormSchema) map[string]string {
	out := make(map[string]string, len(schema.Fields))
	for _, field := range schema.Fields {
		out[field.ID] = r.Resolve(field)
	}
	return out
}

func hasOptions(field model.FieldDefinition) bool {
	return len(field.Validations.Strings(model.RuleOptions)) > 0
}

func ofType(types ...model.FieldType) Matcher {
	return func(field model.FieldDefinition) bool {
		for _, t := range types {
			if field.Type == t {
				return true
			}
		}
		return false
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckboxGroup, 95, func(field model.FieldDefinition) bool {
		return field.Type == model.FieldTypeCheckbox && hasOptions(field)
	})
	r.Register(WidgetToggle, 90, ofType(model.FieldTypeCheckbox))
	r.Register(WidgetMasked, 80, func(field model.FieldDefinition) bool {
		return fieldtypes.MaskFor(field) != ""
	})
	r.Register(WidgetRadioGroup, 70, ofType(model.FieldTypeRadio))
	r.Register(WidgetSelect, 70, ofType(model.FieldTypeSelect))
	r.Register(WidgetMultiSelect, 70, ofType(model.FieldTypeMultiSelect))
	r.Register(WidgetFile, 60, ofType(model.FieldTypeFile))
	r.Register(WidgetSignature, 60, ofType(model.FieldTypeSignature))
	r.Register(WidgetTextarea, 50, ofType(model.FieldTypeTextarea))
}
