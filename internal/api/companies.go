package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.svc.ListCompanies(r.Context(), actor(r))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var in model.Company
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	company, err := h.svc.CreateCompany(r.Context(), actor(r), in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var in model.Company
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	company, err := h.svc.UpdateCompany(r.Context(), actor(r), in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCompany(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in model.User
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	user, err := h.svc.CreateUser(r.Context(), actor(r), in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) ListCompanyUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListCompanyUsers(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) AddCompanyUser(w http.ResponseWriter, r *http.Request) {
	err := h.svc.AddUserToCompany(r.Context(), actor(r), chi.URLParam(r, "companyId"), chi.URLParam(r, "userId"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveCompanyUser(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveUserFromCompany(r.Context(), actor(r), chi.URLParam(r, "companyId"), chi.URLParam(r, "userId"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
