package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FormSummary is a form as listed to a user, flagged when already answered.
type FormSummary struct {
	model.FormSchema
	Submitted bool `json:"submitted"`
}

// ListForms returns all forms to admins and member-company forms to users.
func (s *Service) ListForms(ctx context.Context, actor model.User) ([]model.FormSchema, error) {
	if actor.IsAdmin() {
		return s.repo.ListForms(ctx)
	}
	if len(actor.CompanyIDs) == 0 {
		return []model.FormSchema{}, nil
	}
	return s.repo.ListForms(ctx, actor.CompanyIDs...)
}

func (s *Service) ListCompanyForms(ctx context.Context, actor model.User, companyID string) ([]model.FormSchema, error) {
	if !member(actor, companyID) {
		return nil, ErrForbidden
	}
	return s.repo.ListForms(ctx, companyID)
}

// MyForms lists the forms of the actor's companies with a submitted flag.
func (s *Service) MyForms(ctx context.Context, actor model.User) ([]FormSummary, error) {
	out := []FormSummary{}
	if len(actor.CompanyIDs) == 0 {
		return out, nil
	}
	forms, err := s.repo.ListForms(ctx, actor.CompanyIDs...)
	if err != nil {
		return nil, err
	}
	done, err := s.repo.SubmittedForms(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for _, form := range forms {
		out = append(out, FormSummary{FormSchema: form, Submitted: done[form.ID]})
	}
	return out, nil
}

// ViewForm loads a form the actor may see, without the answered check.
func (s *Service) ViewForm(ctx context.Context, actor model.User, id string) (model.FormSchema, error) {
	form, err := s.repo.GetForm(ctx, id)
	if err != nil {
		return model.FormSchema{}, err
	}
	if !member(actor, form.CompanyID) {
		return model.FormSchema{}, ErrForbidden
	}
	return form, nil
}

// FormToFill loads a form for answering. Users that already answered it get
// ErrAlreadySubmitted; admins are never blocked.
func (s *Service) FormToFill(ctx context.Context, actor model.User, id string) (model.FormSchema, error) {
	form, err := s.ViewForm(ctx, actor, id)
	if err != nil || actor.IsAdmin() {
		return form, err
	}
	done, err := s.repo.HasSubmitted(ctx, id, actor.ID)
	if err != nil {
		return model.FormSchema{}, err
	}
	if done {
		return model.FormSchema{}, ErrAlreadySubmitted
	}
	return form, nil
}

// SaveForm creates the form when it has no id and updates it otherwise.
// Text is sanitised, missing field ids are assigned and the schema is
// checked before storing.
func (s *Service) SaveForm(ctx context.Context, actor model.User, form model.FormSchema) (model.FormSchema, error) {
	if err := requireAdmin(actor); err != nil {
		return model.FormSchema{}, err
	}
	form = branding.SanitizeSchema(form)
	for i := range form.Fields {
		if form.Fields[i].ID == "" {
			form.Fields[i].ID = uuid.NewString()
		}
		if form.Fields[i].Label == "" {
			form.Fields[i].Label = fieldtypes.Label(form.Fields[i].Type)
		}
	}
	if err := s.checkSchema(ctx, form); err != nil {
		return model.FormSchema{}, err
	}

	if form.ID == "" {
		if err := s.repo.CreateForm(ctx, &form); err != nil {
			return model.FormSchema{}, err
		}
		s.logger.Info("form created", "form_id", form.ID, "company_id", form.CompanyID, "fields", len(form.Fields))
		return form, nil
	}
	current, err := s.repo.GetForm(ctx, form.ID)
	if err != nil {
		return model.FormSchema{}, err
	}
	if err := s.repo.UpdateForm(ctx, &form); err != nil {
		return model.FormSchema{}, err
	}
	form.CreatedAt = current.CreatedAt
	s.themes.Remove("form-" + form.ID)
	return form, nil
}

func (s *Service) DeleteForm(ctx context.Context, actor model.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.DeleteForm(ctx, id); err != nil {
		return err
	}
	s.themes.Remove("form-" + id)
	s.logger.Info("form deleted", "form_id", id)
	return nil
}

func (s *Service) checkSchema(ctx context.Context, form model.FormSchema) error {
	var problems []string
	if form.Title == "" {
		problems = append(problems, "title is required")
	}
	if form.CompanyID == "" {
		problems = append(problems, "companyId is required")
	} else if _, err := s.repo.GetCompany(ctx, form.CompanyID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		problems = append(problems, fmt.Sprintf("company %s does not exist", form.CompanyID))
	}

	seen := make(map[string]bool, len(form.Fields))
	for _, field := range form.Fields {
		if seen[field.ID] {
			problems = append(problems, fmt.Sprintf("field id %q is duplicated", field.ID))
		}
		seen[field.ID] = true
		if !fieldtypes.Known(field.Type) {
			problems = append(problems, fmt.Sprintf("field %s: unknown type %q", field.ID, field.Type))
		}
	}

	if t := form.Theme; t != nil {
		for name, color := range map[string]string{
			"backgroundColor": t.BackgroundColor,
			"primaryColor":    t.PrimaryColor,
			"secondaryColor":  t.SecondaryColor,
		} {
			if color != "" && !branding.ValidColor(color) {
				problems = append(problems, fmt.Sprintf("theme.%s %q is not a hex color", name, color))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
