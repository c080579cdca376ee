package service

import (
	"context"
	"errors"

	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ListCompanies returns every company to admins and the member companies to
// everyone else.
func (s *Service) ListCompanies(ctx context.Context, actor model.User) ([]model.Company, error) {
	all, err := s.repo.ListCompanies(ctx)
	if err != nil || actor.IsAdmin() {
		return all, err
	}
	out := make([]model.Company, 0, len(actor.CompanyIDs))
	for _, c := range all {
		if member(actor, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) GetCompany(ctx context.Context, actor model.User, id string) (model.Company, error) {
	if !member(actor, id) {
		return model.Company{}, ErrForbidden
	}
	return s.repo.GetCompany(ctx, id)
}

// CreateCompany normalises and validates company before storing it.
func (s *Service) CreateCompany(ctx context.Context, actor model.User, company model.Company) (model.Company, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Company{}, err
	}
	company = branding.NormalizeCompany(company)
	if err := validateCompany(company); err != nil {
		return model.Company{}, err
	}
	company.ID = ""
	if err := s.repo.CreateCompany(ctx, &company); err != nil {
		return model.Company{}, err
	}
	s.logger.Info("company created", "company_id", company.ID)
	return company, nil
}

func (s *Service) UpdateCompany(ctx context.Context, actor model.User, company model.Company) (model.Company, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Company{}, err
	}
	current, err := s.repo.GetCompany(ctx, company.ID)
	if err != nil {
		return model.Company{}, err
	}
	company = branding.NormalizeCompany(company)
	if err := validateCompany(company); err != nil {
		return model.Company{}, err
	}
	if err := s.repo.UpdateCompany(ctx, &company); err != nil {
		return model.Company{}, err
	}
	company.CreatedAt = current.CreatedAt
	s.themes.Remove(branding.ThemeName(company.ID))
	return company, nil
}

// DeleteCompany removes the company with its forms and submissions.
func (s *Service) DeleteCompany(ctx context.Context, actor model.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}
	s.themes.Remove(branding.ThemeName(id))
	s.logger.Info("company deleted", "company_id", id)
	return nil
}

func validateCompany(company model.Company) error {
	err := branding.ValidateCompany(company)
	var fields branding.CompanyErrors
	if errors.As(err, &fields) {
		return &ValidationError{Company: fields}
	}
	return err
}
