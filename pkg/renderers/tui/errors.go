package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrModeUnsupported is returned for render modes other than fill.
	ErrModeUnsupported = errors.New("tui: render mode not supported")
)
