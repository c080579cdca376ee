// Package render defines the contract shared by form renderers (HTML, TUI)
// and the options a caller passes per request.
package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Renderer turns a form schema into bytes (HTML markup, a JSON answer set,
// ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormSchema, options RenderOptions) ([]byte, error)
}
