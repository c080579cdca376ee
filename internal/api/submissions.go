package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type submitRequest struct {
	FormID  string          `json:"formId"`
	Answers model.AnswerSet `json:"answers"`
}

type statusRequest struct {
	Status model.SubmissionStatus `json:"status"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in submitRequest
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	sub, err := h.svc.Submit(r.Context(), actor(r), in.FormID, in.Answers)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// ValidateAnswers reports field errors for a partial answer set.
func (h *Handler) ValidateAnswers(w http.ResponseWriter, r *http.Request) {
	var in submitRequest
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	report, err := h.svc.Validate(r.Context(), actor(r), chi.URLParam(r, "id"), in.Answers)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) MySubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.MySubmissions(r.Context(), actor(r))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) AllSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.AllSubmissions(r.Context(), actor(r))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) FormSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.FormSubmissions(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) SetSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	sub, err := h.svc.SetSubmissionStatus(r.Context(), actor(r), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
