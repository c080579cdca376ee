package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type formRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	CompanyID string         `db:"company_id"`
	Fields    string         `db:"fields"`
	Theme     sql.NullString `db:"theme"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

const formColumns = `id, title, company_id, fields, theme, created_at, updated_at`

// schema decodes the JSON columns; malformed payloads degrade to defaults
// and are logged with the row id.
func (s *Store) schema(row formRow) model.FormSchema {
	var theme *model.ThemeConfig
	if row.Theme.Valid {
		theme = model.DecodeTheme([]byte(row.Theme.String), s.logger, "column", "forms.theme", "form_id", row.ID)
	}
	return model.FormSchema{
		ID:        row.ID,
		Title:     row.Title,
		CompanyID: row.CompanyID,
		Fields:    model.DecodeFields([]byte(row.Fields), s.logger, "column", "forms.fields", "form_id", row.ID),
		Theme:     theme,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func encodeForm(form *model.FormSchema) (string, sql.NullString, error) {
	fields, err := model.EncodeFields(form.Fields)
	if err != nil {
		return "", sql.NullString{}, err
	}
	theme, err := model.EncodeTheme(form.Theme)
	if err != nil {
		return "", sql.NullString{}, err
	}
	return string(fields), sql.NullString{String: string(theme), Valid: theme != nil}, nil
}

// CreateForm inserts form. An unknown company yields ErrNotFound.
func (s *Store) CreateForm(ctx context.Context, form *model.FormSchema) error {
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	fields, theme, err := encodeForm(form)
	if err != nil {
		return fmt.Errorf("store: create form: %w", err)
	}
	now := s.timestamp()
	form.CreatedAt, form.UpdatedAt = now, now
	_, err = s.execContext(ctx,
		`INSERT INTO forms (`+formColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		form.ID, form.Title, form.CompanyID, fields, theme, form.CreatedAt, form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: create form: %w", classify(err))
	}
	return nil
}

func (s *Store) UpdateForm(ctx context.Context, form *model.FormSchema) error {
	fields, theme, err := encodeForm(form)
	if err != nil {
		return fmt.Errorf("store: update form %s: %w", form.ID, err)
	}
	form.UpdatedAt = s.timestamp()
	err = s.execOne(ctx,
		`UPDATE forms SET title = ?, company_id = ?, fields = ?, theme = ?, updated_at = ? WHERE id = ?`,
		form.Title, form.CompanyID, fields, theme, form.UpdatedAt, form.ID,
	)
	if err != nil {
		return fmt.Errorf("store: update form %s: %w", form.ID, err)
	}
	return nil
}

// DeleteForm removes a form and its submissions.
func (s *Store) DeleteForm(ctx context.Context, id string) error {
	if err := s.execOne(ctx, `DELETE FROM forms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete form %s: %w", id, err)
	}
	return nil
}

func (s *Store) GetForm(ctx context.Context, id string) (model.FormSchema, error) {
	var row formRow
	if err := s.getContext(ctx, &row, `SELECT `+formColumns+` FROM forms WHERE id = ?`, id); err != nil {
		return model.FormSchema{}, fmt.Errorf("store: get form %s: %w", id, classify(err))
	}
	return s.schema(row), nil
}

func (s *Store) ListForms(ctx context.Context, companyIDs ...string) ([]model.FormSchema, error) {
	query := `SELECT ` + formColumns + ` FROM forms ORDER BY title, id`
	var args []any
	if len(companyIDs) > 0 {
		var err error
		query, args, err = sqlx.In(`SELECT `+formColumns+` FROM forms WHERE company_id IN (?) ORDER BY title, id`, companyIDs)
		if err != nil {
			return nil, fmt.Errorf("store: list forms: %w", err)
		}
	}
	var rows []formRow
	if err := s.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("store: list forms: %w", classify(err))
	}
	out := make([]model.FormSchema, len(rows))
	for i, row := range rows {
		out[i] = s.schema(row)
	}
	return out, nil
}
