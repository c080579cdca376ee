// Package openapi describes a form's submission payload as an OpenAPI 3
// document so external systems can post answers without reading the schema
// format.
package openapi
