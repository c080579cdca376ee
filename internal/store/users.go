package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type userRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

const userColumns = `id, name, email, role, created_at`

// CreateUser inserts user and its company memberships in one transaction.
// Emails are stored lower-cased; a duplicate email yields ErrConflict.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = s.timestamp()

	return s.WithTx(ctx, func(tx *Store) error {
		_, err := tx.execContext(ctx,
			`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?)`,
			user.ID, user.Name, user.Email, string(user.Role), user.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("store: create user: %w", classify(err))
		}
		for _, companyID := range user.CompanyIDs {
			if err := tx.AddUserToCompany(ctx, companyID, user.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	var row userRow
	if err := s.getContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return model.User{}, fmt.Errorf("store: get user %s: %w", id, classify(err))
	}
	var companies []string
	if err := s.selectContext(ctx, &companies,
		`SELECT company_id FROM company_users WHERE user_id = ? ORDER BY company_id`, id); err != nil {
		return model.User{}, fmt.Errorf("store: get user %s companies: %w", id, classify(err))
	}
	return model.User{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Role:       model.Role(row.Role),
		CompanyIDs: companies,
		CreatedAt:  row.CreatedAt,
	}, nil
}

// AddUserToCompany is idempotent. Unknown ids yield ErrNotFound.
func (s *Store) AddUserToCompany(ctx context.Context, companyID, userID string) error {
	var exists int
	err := s.getContext(ctx, &exists,
		`SELECT COUNT(1) FROM company_users WHERE company_id = ? AND user_id = ?`, companyID, userID)
	if err != nil {
		return fmt.Errorf("store: add user to company: %w", classify(err))
	}
	if exists > 0 {
		return nil
	}
	if _, err := s.execContext(ctx,
		`INSERT INTO company_users (company_id, user_id) VALUES (?, ?)`, companyID, userID); err != nil {
		return fmt.Errorf("store: add user %s to company %s: %w", userID, companyID, classify(err))
	}
	return nil
}

func (s *Store) RemoveUserFromCompany(ctx context.Context, companyID, userID string) error {
	if err := s.execOne(ctx,
		`DELETE FROM company_users WHERE company_id = ? AND user_id = ?`, companyID, userID); err != nil {
		return fmt.Errorf("store: remove user %s from company %s: %w", userID, companyID, err)
	}
	return nil
}

// ListCompanyUsers returns members of companyID ordered by name. Each user
// carries only companyID in CompanyIDs.
func (s *Store) ListCompanyUsers(ctx context.Context, companyID string) ([]model.User, error) {
	var rows []userRow
	err := s.selectContext(ctx, &rows,
		`SELECT u.id, u.name, u.email, u.role, u.created_at
		 FROM users u JOIN company_users cu ON cu.user_id = u.id
		 WHERE cu.company_id = ?
		 ORDER BY u.name, u.id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("store: list users of %s: %w", companyID, classify(err))
	}
	out := make([]model.User, len(rows))
	for i, row := range rows {
		out[i] = model.User{
			ID:         row.ID,
			Name:       row.Name,
			Email:      row.Email,
			Role:       model.Role(row.Role),
			CompanyIDs: []string{companyID},
			CreatedAt:  row.CreatedAt,
		}
	}
	return out, nil
}
