package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure (answers rejected, already submitted)
	ExitCommandError = 2 // Command error (bad config, unreadable files, store errors)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results in the configured format.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose logs go here to keep structured output clean
	Verbose   bool
}

// Structured writes v as JSON or YAML. Text falls back to indented JSON.
func (f *OutputFormatter) Structured(v any) error {
	if f.Format == "yaml" {
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = f.Writer.Write(data)
		return err
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// VerboseLog prints when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: out, ErrWriter: errOut, Verbose: opts.Verbose}
}

// readSchema loads a form schema from a JSON file.
func readSchema(path string) (model.FormSchema, error) {
	var form model.FormSchema
	if err := readJSON(path, &form); err != nil {
		return model.FormSchema{}, err
	}
	return form, nil
}

// readAnswers loads an answer set. Files may hold the stored shape
// ({"id": {"value": ...}}) or plain values keyed by field id.
func readAnswers(path string, form model.FormSchema) (model.AnswerSet, error) {
	var raw map[string]json.RawMessage
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	set := make(model.AnswerSet, len(raw))
	for id, msg := range raw {
		var answer model.Answer
		var fields map[string]json.RawMessage
		if json.Unmarshal(msg, &fields) == nil {
			if _, ok := fields["value"]; ok {
				if err := json.Unmarshal(msg, &answer); err != nil {
					return nil, fmt.Errorf("answers %s: %w", id, err)
				}
				set[id] = answer
				continue
			}
		}
		var value any
		if err := json.Unmarshal(msg, &value); err != nil {
			return nil, fmt.Errorf("answers %s: %w", id, err)
		}
		if field, ok := form.Field(id); ok {
			answer = model.Answer{Label: field.Label, Type: field.Type}
		}
		answer.Value = value
		set[id] = answer
	}
	return set, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "read "+path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return WrapExitError(ExitCommandError, "parse "+path, err)
	}
	return nil
}
