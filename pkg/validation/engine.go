// Package validation decides whether an answer value satisfies the rules of
// its field. The same Engine backs live feedback in the fill renderers, the
// submission gate and the HTTP validate endpoint.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	dateLayout = "2006-01-02"
	bytesPerMB = 1024 * 1024
)

// Option configures an Engine.
type Option func(*Engine)

// WithLocale selects the message catalog.
func WithLocale(locale string) Option {
	return func(e *Engine) {
		e.locale = NormalizeLocale(locale)
	}
}

// WithMessages overrides individual message templates for the engine locale.
func WithMessages(messages Messages) Option {
	return func(e *Engine) {
		e.overrides = messages
	}
}

// Engine validates field values. It is safe for concurrent use.
type Engine struct {
	locale    string
	messages  Messages
	overrides Messages
	patterns  sync.Map
}

// New constructs an Engine. The default locale is pt-BR.
func New(options ...Option) *Engine {
	e := &Engine{locale: LocalePtBR}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	base := defaultMessages[e.locale]
	e.messages = make(Messages, len(base)+len(e.overrides))
	for k, v := range base {
		e.messages[k] = v
	}
	for k, v := range e.overrides {
		e.messages[k] = v
	}
	return e
}

// Locale reports the message locale.
func (e *Engine) Locale() string {
	return e.locale
}

var defaultEngine = New()

// Validate checks value against field using the default engine.
func Validate(field model.FieldDefinition, value any) Result {
	return defaultEngine.Validate(field, value)
}

// Validate checks value against the rules of field. The required rule is
// evaluated first; type specific rules follow. Rules that are not declared for
// the field type are ignored.
func (e *Engine) Validate(field model.FieldDefinition, value any) Result {
	if !fieldtypes.Known(field.Type) {
		return Invalid(UnknownFieldType, e.message(msgUnknownType, string(field.Type)))
	}
	rules := field.Validations

	if rules.Bool(model.RuleRequired) && IsEmpty(field, value) {
		return Invalid(Required, e.message(msgRequired, ""))
	}

	switch field.Type {
	case model.FieldTypeText, model.FieldTypeTextarea:
		return e.validateText(field, value)
	case model.FieldTypeNumber:
		return e.validateNumber(rules, value)
	case model.FieldTypeEmail:
		return e.validateEmail(rules, value)
	case model.FieldTypeMultiSelect:
		return e.validateSelection(rules, value)
	case model.FieldTypeFile:
		return e.validateFile(rules, value)
	case model.FieldTypeDate:
		return e.validateDate(rules, value)
	case model.FieldTypeTime:
		return e.validateTime(rules, value)
	case model.FieldTypeCPF, model.FieldTypeCNPJ:
		return e.validateTaxID(field.Type, rules, value)
	}
	return Ok()
}

func (e *Engine) validateText(field model.FieldDefinition, value any) Result {
	rules := field.Validations
	text := stringValue(value)
	length := utf8.RuneCountInString(text)

	if lower, ok := rules.Int(model.RuleMinLength); ok && length < lower {
		return Invalid(TooShort, e.message(msgTooShort, strconv.Itoa(lower)))
	}
	if upper, ok := rules.Int(model.RuleMaxLength); ok && length > upper {
		return Invalid(TooLong, e.message(msgTooLong, strconv.Itoa(upper)))
	}
	if text != "" && fieldtypes.Applies(field.Type, model.RulePattern) {
		if pattern, ok := rules.String(model.RulePattern); ok {
			if re := e.compile(pattern); re != nil && !re.MatchString(text) {
				return Invalid(BadFormat, e.message(msgBadPattern, ""))
			}
		}
	}
	return Ok()
}

func (e *Engine) validateNumber(rules model.Rules, value any) Result {
	if isBlankScalar(value) {
		return Ok()
	}
	num, ok := model.ToFloat(value)
	if !ok {
		return Invalid(BadFormat, e.message(msgBadNumber, ""))
	}
	if lower, ok := rules.Number(model.RuleMin); ok && num < lower {
		return Invalid(BelowMin, e.message(msgBelowMin, formatNumber(lower)))
	}
	if upper, ok := rules.Number(model.RuleMax); ok && num > upper {
		return Invalid(AboveMax, e.message(msgAboveMax, formatNumber(upper)))
	}
	return Ok()
}

func (e *Engine) validateEmail(rules model.Rules, value any) Result {
	email := strings.TrimSpace(stringValue(value))
	if email == "" {
		return Ok()
	}
	if !emailPattern.MatchString(email) {
		return Invalid(BadFormat, e.message(msgBadEmail, ""))
	}
	allowed := domainList(rules[model.RuleCustomDomain])
	if len(allowed) == 0 {
		return Ok()
	}
	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	for _, candidate := range allowed {
		if strings.ToLower(candidate) == domain {
			return Ok()
		}
	}
	return Invalid(DomainNotAllowed, e.message(msgDomain, strings.Join(allowed, ", ")))
}

func (e *Engine) validateSelection(rules model.Rules, value any) Result {
	count := listLen(value)
	if lower, ok := rules.Int(model.RuleMinSelect); ok && count < lower {
		return Invalid(TooFewSelected, e.message(msgTooFew, strconv.Itoa(lower)))
	}
	if upper, ok := rules.Int(model.RuleMaxSelect); ok && count > upper {
		return Invalid(TooManySelected, e.message(msgTooMany, strconv.Itoa(upper)))
	}
	return Ok()
}

func (e *Engine) validateFile(rules model.Rules, value any) Result {
	file, ok := model.AsFile(value)
	if !ok || file.Size <= 0 {
		return Ok()
	}
	if maxSize, ok := rules.Number(model.RuleMaxSize); ok && float64(file.Size)/bytesPerMB > maxSize {
		return Invalid(FileTooLarge, e.message(msgFileTooLarge, formatNumber(maxSize)))
	}
	if allowed := rules.Strings(model.RuleAllowedTypes); len(allowed) > 0 && !fileTypeAllowed(file, allowed) {
		return Invalid(BadFormat, e.message(msgFileTypeBlocked, ""))
	}
	return Ok()
}

// InvalidFile is the result for a file answer whose content does not decode.
func (e *Engine) InvalidFile() Result {
	return Invalid(BadFormat, e.message(msgBadFile, ""))
}

func (e *Engine) validateDate(rules model.Rules, value any) Result {
	raw := strings.TrimSpace(stringValue(value))
	if raw == "" {
		return Ok()
	}
	got, err := time.Parse(dateLayout, raw)
	if err != nil {
		return Invalid(BadFormat, e.message(msgBadDate, ""))
	}
	if bound, ok := rules.String(model.RuleMinDate); ok {
		if lower, err := time.Parse(dateLayout, bound); err == nil && got.Before(lower) {
			return Invalid(BelowMin, e.message(msgMinDate, bound))
		}
	}
	if bound, ok := rules.String(model.RuleMaxDate); ok {
		if upper, err := time.Parse(dateLayout, bound); err == nil && got.After(upper) {
			return Invalid(AboveMax, e.message(msgMaxDate, bound))
		}
	}
	return Ok()
}

func (e *Engine) validateTime(rules model.Rules, value any) Result {
	raw := strings.TrimSpace(stringValue(value))
	if raw == "" {
		return Ok()
	}
	got, ok := parseClock(raw)
	if !ok {
		return Invalid(BadFormat, e.message(msgBadTime, ""))
	}
	if bound, ok := rules.String(model.RuleMinTime); ok {
		if lower, ok := parseClock(bound); ok && got < lower {
			return Invalid(BelowMin, e.message(msgMinTime, bound))
		}
	}
	if bound, ok := rules.String(model.RuleMaxTime); ok {
		if upper, ok := parseClock(bound); ok && got > upper {
			return Invalid(AboveMax, e.message(msgMaxTime, bound))
		}
	}
	return Ok()
}

func (e *Engine) validateTaxID(kind model.FieldType, rules model.Rules, value any) Result {
	raw := strings.TrimSpace(stringValue(value))
	if raw == "" || !rules.Bool(model.RuleValidate) {
		return Ok()
	}
	if kind == model.FieldTypeCPF {
		if !ValidCPF(raw) {
			return Invalid(BadFormat, e.message(msgBadCPF, ""))
		}
		return Ok()
	}
	if !ValidCNPJ(raw) {
		return Invalid(BadFormat, e.message(msgBadCNPJ, ""))
	}
	return Ok()
}

// compile returns the cached expression for pattern, or nil when pattern does
// not compile.
func (e *Engine) compile(pattern string) *regexp.Regexp {
	if cached, ok := e.patterns.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	e.patterns.Store(pattern, re)
	return re
}

// parseClock converts HH:MM or HH:MM:SS into seconds since midnight.
func parseClock(raw string) (int, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Hour()*3600 + t.Minute()*60 + t.Second(), true
		}
	}
	return 0, false
}

func domainList(value any) []string {
	var raw []string
	switch v := value.(type) {
	case string:
		raw = strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';' || r == ' '
		})
	default:
		raw = model.ToStrings(v)
	}
	out := make([]string, 0, len(raw))
	for _, domain := range raw {
		domain = strings.TrimPrefix(strings.TrimSpace(domain), "@")
		if domain != "" {
			out = append(out, domain)
		}
	}
	return out
}

func fileTypeAllowed(file model.FileValue, allowed []string) bool {
	mime := strings.ToLower(strings.TrimSpace(file.Type))
	name := strings.ToLower(file.Name)
	for _, entry := range allowed {
		for _, candidate := range strings.Split(entry, ",") {
			candidate = strings.ToLower(strings.TrimSpace(candidate))
			switch {
			case candidate == "":
			case strings.HasPrefix(candidate, "."):
				if strings.HasSuffix(name, candidate) {
					return true
				}
			case strings.HasSuffix(candidate, "/*"):
				if strings.HasPrefix(mime, strings.TrimSuffix(candidate, "*")) {
					return true
				}
			default:
				if mime == candidate {
					return true
				}
			}
		}
	}
	return false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
