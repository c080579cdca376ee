package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type companyRow struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	BackgroundColor string    `db:"background_color"`
	PrimaryColor    string    `db:"primary_color"`
	SecondaryColor  string    `db:"secondary_color"`
	LogoURL         string    `db:"logo_url"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r companyRow) model() model.Company {
	return model.Company{
		ID:              r.ID,
		Name:            r.Name,
		BackgroundColor: r.BackgroundColor,
		PrimaryColor:    r.PrimaryColor,
		SecondaryColor:  r.SecondaryColor,
		LogoURL:         r.LogoURL,
		CreatedAt:       r.CreatedAt,
	}
}

const companyColumns = `id, name, background_color, primary_color, secondary_color, logo_url, created_at`

// CreateCompany inserts company, assigning an id and creation time.
func (s *Store) CreateCompany(ctx context.Context, company *model.Company) error {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	company.CreatedAt = s.timestamp()
	_, err := s.execContext(ctx,
		`INSERT INTO companies (`+companyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		company.ID, company.Name, company.BackgroundColor, company.PrimaryColor,
		company.SecondaryColor, company.LogoURL, company.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: create company: %w", classify(err))
	}
	return nil
}

func (s *Store) UpdateCompany(ctx context.Context, company *model.Company) error {
	err := s.execOne(ctx,
		`UPDATE companies SET name = ?, background_color = ?, primary_color = ?, secondary_color = ?, logo_url = ? WHERE id = ?`,
		company.Name, company.BackgroundColor, company.PrimaryColor, company.SecondaryColor,
		company.LogoURL, company.ID,
	)
	if err != nil {
		return fmt.Errorf("store: update company %s: %w", company.ID, err)
	}
	return nil
}

// DeleteCompany removes a company with its forms, submissions and
// memberships.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	if err := s.execOne(ctx, `DELETE FROM companies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete company %s: %w", id, err)
	}
	return nil
}

func (s *Store) GetCompany(ctx context.Context, id string) (model.Company, error) {
	var row companyRow
	if err := s.getContext(ctx, &row, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id); err != nil {
		return model.Company{}, fmt.Errorf("store: get company %s: %w", id, classify(err))
	}
	return row.model(), nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]model.Company, error) {
	var rows []companyRow
	if err := s.selectContext(ctx, &rows, `SELECT `+companyColumns+` FROM companies ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("store: list companies: %w", classify(err))
	}
	out := make([]model.Company, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}
