// Package template defines the template engine seam used by the HTML
// renderer so alternative engines can be plugged in.
package template
