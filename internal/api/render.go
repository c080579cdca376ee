package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/internal/service"
	"github.com/goliatone/go-formbuilder/pkg/answers"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// defaultUploadLimit caps a single uploaded file when Deps.UploadLimit is
// unset.
const defaultUploadLimit = 10 << 20

// formFieldsAllowance is the body budget of a fill form before files.
const formFieldsAllowance = 1 << 20

// RenderForm renders ?mode=fill (default) or preview. Preview is for
// admins; fill applies the already-answered check.
func (h *Handler) RenderForm(w http.ResponseWriter, r *http.Request) {
	mode := render.ParseMode(r.URL.Query().Get("mode"))
	if mode == render.ModeEditor {
		h.RenderEditor(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	var (
		form model.FormSchema
		err  error
	)
	if mode == render.ModePreview {
		if !actor(r).IsAdmin() {
			fail(w, r, h.logger, fmt.Errorf("%w: preview is for admins", service.ErrForbidden))
			return
		}
		form, err = h.svc.ViewForm(r.Context(), actor(r), id)
	} else {
		form, err = h.svc.FormToFill(r.Context(), actor(r), id)
	}
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	h.renderPage(w, r, form, render.RenderOptions{Mode: mode, Action: r.URL.Path}, http.StatusOK)
}

func (h *Handler) RenderEditor(w http.ResponseWriter, r *http.Request) {
	if !actor(r).IsAdmin() {
		fail(w, r, h.logger, fmt.Errorf("%w: editor is for admins", service.ErrForbidden))
		return
	}
	form, err := h.svc.ViewForm(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	h.renderPage(w, r, form, render.RenderOptions{Mode: render.ModeEditor}, http.StatusOK)
}

// SubmitRenderedForm accepts the fill page's form post. Validation failures
// re-render the page with the answers and messages; success renders the
// confirmation.
func (h *Handler) SubmitRenderedForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.svc.FormToFill(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.formBodyLimit(form))
	set, err := h.formAnswers(r, form)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	options := render.RenderOptions{Mode: render.ModeFill, Action: r.URL.Path, Values: set}
	_, err = h.svc.Submit(r.Context(), actor(r), form.ID, set)
	var verr *service.ValidationError
	switch {
	case err == nil:
		options.Submitted = true
		h.renderPage(w, r, form, options, http.StatusCreated)
	case errors.As(err, &verr) && len(verr.Fields) > 0:
		options.Errors = render.FieldErrors(verr.Fields)
		options.Locale = locale(r)
		options.FormErrors = []string{render.Translate(options, "form.fix_errors")}
		h.renderPage(w, r, form, options, http.StatusUnprocessableEntity)
	default:
		fail(w, r, h.logger, err)
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, form model.FormSchema, options render.RenderOptions, status int) {
	q := r.URL.Query()
	cfg, err := h.svc.Theme(r.Context(), form, q.Get("variant"))
	if err != nil {
		fail(w, r, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	options.Theme = cfg
	if options.Locale == "" {
		options.Locale = locale(r)
	}
	body, contentType, err := h.renderers.Render(r.Context(), q.Get("renderer"), form, options)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// formAnswers converts a posted HTML form into an answer set keyed by
// field id.
func (h *Handler) formAnswers(r *http.Request, form model.FormSchema) (model.AnswerSet, error) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, badForm(err)
	}
	if r.PostForm == nil {
		if err := r.ParseForm(); err != nil {
			return nil, badForm(err)
		}
	}

	set := model.AnswerSet{}
	for _, field := range form.Fields {
		values, present := r.PostForm[field.ID]
		switch {
		case field.Type == model.FieldTypeFile:
			file, header, err := r.FormFile(field.ID)
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %v", errBadRequest, err)
			}
			value, err := answers.EncodeFile(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, answers.WithLimit(h.limit()))
			file.Close()
			if err != nil {
				return nil, err
			}
			set = answers.RecordField(set, field, value)
		case field.Type == model.FieldTypeMultiSelect,
			field.Type == model.FieldTypeCheckbox && len(field.Validations.Strings(model.RuleOptions)) > 0:
			list := make([]any, 0, len(values))
			for _, v := range values {
				list = append(list, v)
			}
			set = answers.RecordField(set, field, list)
		case field.Type == model.FieldTypeCheckbox:
			set = answers.RecordField(set, field, present && r.PostForm.Get(field.ID) != "false")
		case !present:
		case field.Type == model.FieldTypeNumber:
			raw := strings.TrimSpace(values[0])
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				set = answers.RecordField(set, field, n)
			} else if raw != "" {
				set = answers.RecordField(set, field, raw)
			}
		default:
			set = answers.RecordField(set, field, values[0])
		}
	}
	return set, nil
}

// formBodyLimit bounds a posted fill form: one upload limit per file field
// plus room for the text fields and multipart framing.
func (h *Handler) formBodyLimit(form model.FormSchema) int64 {
	limit := int64(formFieldsAllowance)
	for _, field := range form.Fields {
		if field.Type == model.FieldTypeFile {
			limit += h.limit()
		}
	}
	return limit
}

func badForm(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func (h *Handler) limit() int64 {
	if h.uploadLimit > 0 {
		return h.uploadLimit
	}
	return defaultUploadLimit
}

// Upload converts one multipart file into a FileValue ready to be used as
// an answer.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.limit()+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			fail(w, r, h.logger, err)
			return
		}
		fail(w, r, h.logger, fmt.Errorf("%w: multipart field \"file\" is required", errBadRequest))
		return
	}
	defer file.Close()

	value, err := answers.EncodeFile(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, answers.WithLimit(h.limit()))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, value)
}

// OpenAPI describes the submission payload of a form. ?format=yaml switches
// the encoding.
func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	form, err := h.svc.ViewForm(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	doc, err := openapi.Export(form, openapi.Options{ServerURL: serverURL(r)})
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	format := r.URL.Query().Get("format")
	body, err := openapi.Marshal(doc, format)
	if err != nil {
		fail(w, r, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	contentType := "application/json"
	if format == "yaml" {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func serverURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// locale picks ?locale=, then the first Accept-Language tag.
func locale(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return l
	}
	tag, _, _ := strings.Cut(r.Header.Get("Accept-Language"), ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.TrimSpace(tag)
}
