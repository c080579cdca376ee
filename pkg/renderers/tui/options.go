package tui

import (
	"io"
	"os"

	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// OutputFormat controls how collected answers are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the answer set as application/json.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded
	// payloads keyed by field id.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// FileOpener opens the path typed for file and signature fields.
type FileOpener func(path string) (io.ReadCloser, error)

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithGate validates answers with gate instead of the default one.
func WithGate(gate *submission.Gate) Option {
	return func(r *Renderer) {
		if gate != nil {
			r.gate = gate
		}
	}
}

// WithWidgets overrides the registry that picks a prompt per field.
func WithWidgets(reg *widgets.Registry) Option {
	return func(r *Renderer) {
		if reg != nil {
			r.widgets = reg
		}
	}
}

// WithPersist hands the validated answers to fn once every field passes.
// Without it Render only collects answers.
func WithPersist(fn submission.PersistFunc) Option {
	return func(r *Renderer) {
		r.persist = fn
	}
}

// WithFileOpener replaces os.Open for file and signature paths.
func WithFileOpener(open FileOpener) Option {
	return func(r *Renderer) {
		if open != nil {
			r.open = open
		}
	}
}

// WithFileLimit caps the bytes read from a single file.
func WithFileLimit(n int64) Option {
	return func(r *Renderer) {
		r.fileLimit = n
	}
}

// WithReview asks, after the last field, whether to go through the answers
// again before submitting.
func WithReview(enabled bool) Option {
	return func(r *Renderer) {
		r.review = enabled
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
