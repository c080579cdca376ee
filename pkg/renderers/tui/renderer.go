// Package tui fills forms from a terminal. Every field is prompted with the
// control its widget calls for, checked through a submission session and
// asked again until it passes.
package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/answers"
	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Name is the registry name of this renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	gate         *submission.Gate
	widgets      *widgets.Registry
	persist      submission.PersistFunc
	open         FileOpener
	fileLimit    int64
	review       bool
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		gate:         submission.NewGate(),
		widgets:      widgets.NewRegistry(),
		open:         openFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts every field of form in order, then submits the answers
// through the configured persist function and returns them serialized.
// options.Values pre-fill the prompts and options.Errors are shown next to
// their fields on the first pass.
func (r *Renderer) Render(ctx context.Context, form model.FormSchema, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if mode := render.ParseMode(string(options.Mode)); mode != render.ModeFill {
		return nil, fmt.Errorf("%w: %s", ErrModeUnsupported, mode)
	}

	if options.Submitted {
		if err := r.info(ctx, render.Translate(options, "form.submitted")); err != nil {
			return nil, err
		}
		return r.serialize(form, options.Values, options)
	}

	var encode []answers.EncodeOption
	if r.fileLimit > 0 {
		encode = append(encode, answers.WithLimit(r.fileLimit))
	}
	session := submission.NewSession(form, r.gate, options.Values, encode...)

	if err := r.info(ctx, form.Title); err != nil {
		return nil, err
	}
	if len(form.Fields) == 0 {
		if err := r.info(ctx, render.Translate(options, "form.empty")); err != nil {
			return nil, err
		}
	}
	pending := render.MapErrorPayload(options.Errors)
	for _, msg := range slices.Concat(options.FormErrors, pending[""]) {
		if err := r.fail(ctx, msg); err != nil {
			return nil, err
		}
	}

	for {
		for _, field := range form.Fields {
			if err := r.promptField(ctx, session, field, options, pending[field.ID]); err != nil {
				return nil, err
			}
		}
		pending = nil

		if r.review {
			again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: render.Translate(options, "tui.review")})
			if err != nil {
				return nil, err
			}
			if again {
				continue
			}
		}

		err := session.Submit(ctx, r.persistFunc())
		var invalid *submission.InvalidError
		if errors.As(err, &invalid) {
			pending = render.FieldErrors(invalid.Errors)
			if err := r.fail(ctx, render.Translate(options, "tui.retry")); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	if err := r.info(ctx, render.Translate(options, "form.submitted")); err != nil {
		return nil, err
	}
	return r.serialize(form, answers.Restrict(form, session.Answers()), options)
}

func (r *Renderer) persistFunc() submission.PersistFunc {
	if r.persist != nil {
		return r.persist
	}
	return func(context.Context, model.AnswerSet) error { return nil }
}

// promptField asks for one field until its answer validates. Fields of
// unknown types are not asked.
func (r *Renderer) promptField(ctx context.Context, session *submission.Session, field model.FieldDefinition, options render.RenderOptions, initial []string) error {
	if !fieldtypes.Known(field.Type) {
		return nil
	}
	for _, msg := range initial {
		if err := r.fail(ctx, field.Label+": "+msg); err != nil {
			return err
		}
	}
	widget := r.widgets.Resolve(field)
	for {
		current := session.Answers().Value(field.ID)
		result, err := r.askField(ctx, session, widget, field, current, options)
		if err != nil {
			return err
		}
		if result.Valid {
			return nil
		}
		if err := r.fail(ctx, field.Label+": "+result.Message); err != nil {
			return err
		}
	}
}

func (r *Renderer) askField(ctx context.Context, session *submission.Session, widget string, field model.FieldDefinition, current any, options render.RenderOptions) (validation.Result, error) {
	message := r.theme.PromptPrefix + promptLabel(field, options)
	help := helpText(field)
	required := field.Validations.Bool(model.RuleRequired)

	switch widget {
	case widgets.WidgetToggle:
		def := field.Validations.Bool(model.RuleDefaultChecked)
		if b, ok := current.(bool); ok {
			def = b
		}
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def, Help: help})
		if err != nil {
			return validation.Result{}, err
		}
		return session.Change(field.ID, checked)

	case widgets.WidgetCheckboxGroup, widgets.WidgetMultiSelect:
		opts := field.Validations.Strings(model.RuleOptions)
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  opts,
			Defaults: indicesOf(opts, model.ToStrings(current)),
			Help:     help,
		})
		if err != nil {
			return validation.Result{}, err
		}
		values := make([]any, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(opts) {
				values = append(values, opts[idx])
			}
		}
		return session.Change(field.ID, values)

	case widgets.WidgetRadioGroup, widgets.WidgetSelect:
		opts := field.Validations.Strings(model.RuleOptions)
		offset := 0
		if !required {
			opts = append([]string{render.Translate(options, "form.select")}, opts...)
			offset = 1
		}
		def := 0
		if s, ok := current.(string); ok {
			if idx := indexOf(opts[offset:], s); idx >= 0 {
				def = idx + offset
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: opts, DefaultIndex: def, Help: help})
		if err != nil {
			return validation.Result{}, err
		}
		var value any
		if idx >= offset && idx < len(opts) {
			value = opts[idx]
		}
		return session.Change(field.ID, value)

	case widgets.WidgetTextarea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: stringValue(current), Help: help})
		if err != nil {
			return validation.Result{}, err
		}
		return session.Change(field.ID, blankToNil(text))

	case widgets.WidgetFile, widgets.WidgetSignature:
		def := ""
		if file, ok := model.AsFile(current); ok {
			def = file.Name
		}
		path, err := r.driver.Input(ctx, InputConfig{Message: message, Default: def, Help: help})
		if err != nil {
			return validation.Result{}, err
		}
		switch path = strings.TrimSpace(path); {
		case path == "":
			return session.Change(field.ID, nil)
		case path == def:
			return session.Change(field.ID, current)
		}
		return r.readFile(ctx, session, widget, field, path)
	}

	mask := fieldtypes.MaskFor(field)
	def := stringValue(current)
	if mask != "" {
		def = fieldtypes.ApplyMask(mask, def)
	}
	raw, err := r.driver.Input(ctx, InputConfig{Message: message, Default: def, Help: help})
	if err != nil {
		return validation.Result{}, err
	}
	raw = strings.TrimSpace(raw)
	if field.Type == model.FieldTypeNumber && raw != "" {
		if n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err == nil {
			return session.Change(field.ID, n)
		}
	}
	return session.Change(field.ID, blankToNil(raw))
}

// readFile loads path into the session. Signatures keep only the data URL of
// the image.
func (r *Renderer) readFile(ctx context.Context, session *submission.Session, widget string, field model.FieldDefinition, path string) (validation.Result, error) {
	src, err := r.open(path)
	if err != nil {
		return validation.Invalid(validation.BadFormat, err.Error()), nil
	}
	defer src.Close()

	if widget == widgets.WidgetSignature {
		var encode []answers.EncodeOption
		if r.fileLimit > 0 {
			encode = append(encode, answers.WithLimit(r.fileLimit))
		}
		file, err := answers.EncodeFile(ctx, filepath.Base(path), "", src, encode...)
		if err != nil {
			return readFailure(err)
		}
		return session.Change(field.ID, file.Data)
	}

	done, err := session.ChangeFile(ctx, field.ID, filepath.Base(path), "", src)
	if err != nil {
		return validation.Result{}, err
	}
	if err := <-done; err != nil {
		return readFailure(err)
	}
	return session.Field(field.ID).Result, nil
}

// readFailure turns a read error into a retryable result. Cancellation is
// returned as is.
func readFailure(err error) (validation.Result, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return validation.Result{}, err
	}
	return validation.Invalid(validation.BadFormat, err.Error()), nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if msg == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) fail(ctx context.Context, msg string) error {
	if msg == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func promptLabel(field model.FieldDefinition, options render.RenderOptions) string {
	label := field.Label
	if label == "" {
		label = fieldtypes.Label(field.Type)
	}
	if field.Validations.Bool(model.RuleRequired) {
		label += " (" + render.Translate(options, "form.required") + ")"
	}
	return label
}

func helpText(field model.FieldDefinition) string {
	if mask := fieldtypes.MaskFor(field); mask != "" {
		return mask
	}
	switch field.Type {
	case model.FieldTypeFile:
		if allowed := field.Validations.Strings(model.RuleAllowedTypes); len(allowed) > 0 {
			return strings.Join(allowed, ", ")
		}
	case model.FieldTypeDate:
		return "AAAA-MM-DD"
	case model.FieldTypeTime:
		return "HH:MM"
	}
	return ""
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func blankToNil(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func (r *Renderer) serialize(form model.FormSchema, set model.AnswerSet, options render.RenderOptions) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, field := range form.Fields {
			answer, ok := set[field.ID]
			if !ok {
				continue
			}
			for _, v := range flatten(answer.Value) {
				values.Add(field.ID, v)
			}
		}
		return []byte(values.Encode()), nil

	case OutputFormatPrettyText:
		var buf bytes.Buffer
		for _, field := range form.Fields {
			fmt.Fprintf(&buf, "%s: %s\n", field.Label, display(set.Value(field.ID), options))
		}
		return buf.Bytes(), nil
	}

	if set == nil {
		set = model.AnswerSet{}
	}
	out, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("tui: encode answers: %w", err)
	}
	return out, nil
}

func flatten(value any) []string {
	if value == nil {
		return nil
	}
	if file, ok := model.AsFile(value); ok {
		return []string{file.Data}
	}
	switch v := value.(type) {
	case bool:
		return []string{strconv.FormatBool(v)}
	case string, float64, int:
		return []string{stringValue(v)}
	}
	return model.ToStrings(value)
}

func display(value any, options render.RenderOptions) string {
	if value == nil {
		return "-"
	}
	if file, ok := model.AsFile(value); ok {
		return fmt.Sprintf("%s (%d bytes)", file.Name, file.Size)
	}
	switch v := value.(type) {
	case bool:
		if v {
			return render.Translate(options, "form.yes")
		}
		return render.Translate(options, "form.no")
	case string:
		if strings.HasPrefix(v, "data:") {
			return "[" + strings.SplitN(strings.TrimPrefix(v, "data:"), ";", 2)[0] + "]"
		}
		return v
	case float64, int:
		return stringValue(v)
	case []any, []string:
		if list := model.ToStrings(v); len(list) > 0 {
			return strings.Join(list, ", ")
		}
		return "-"
	}
	return fmt.Sprint(value)
}
