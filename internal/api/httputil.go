package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-formbuilder/internal/service"
	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/answers"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// maxBodyBytes bounds JSON request bodies. Forms with embedded files are
// the largest payloads.
const maxBodyBytes = 32 << 20

var errBadRequest = errors.New("api: bad request")

type errorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Fields any    `json:"fields,omitempty"`
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("api: encode response", "error", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// fail maps err onto a status code and writes it. Unexpected errors are
// logged and hidden from the client.
func fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *service.ValidationError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &verr):
		body := errorBody{Error: verr.Error(), Code: "VALIDATION_ERROR"}
		switch {
		case len(verr.Fields) > 0:
			body.Fields = verr.Fields
		case len(verr.Company) > 0:
			body.Fields = verr.Company
		case len(verr.Problems) > 0:
			body.Fields = verr.Problems
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "a valid X-User-ID header is required")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, "ALREADY_SUBMITTED", err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.As(err, &maxBytes), errors.Is(err, answers.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE", err.Error())
	case errors.Is(err, errBadRequest), errors.Is(err, render.ErrRendererNotFound):
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	default:
		logger.Error("api: internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
