package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

func (h *Handler) FieldTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fieldtypes.Types())
}

func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.svc.ListForms(r.Context(), actor(r))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *Handler) ListCompanyForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.svc.ListCompanyForms(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *Handler) MyForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.svc.MyForms(r.Context(), actor(r))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

// GetForm returns the form to fill. Users that already answered it get 409.
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.svc.FormToFill(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	var in model.FormSchema
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	in.ID = ""
	form, err := h.svc.SaveForm(r.Context(), actor(r), in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var in model.FormSchema
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	form, err := h.svc.SaveForm(r.Context(), actor(r), in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteForm(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
