package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// CreateUser registers a user, optionally attached to companies. Duplicate
// emails surface as store.ErrConflict.
func (s *Service) CreateUser(ctx context.Context, actor model.User, user model.User) (model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return model.User{}, err
	}
	user.Name = branding.SanitizeText(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	var problems []string
	if user.Name == "" {
		problems = append(problems, "name is required")
	}
	if _, err := mail.ParseAddress(user.Email); err != nil || strings.ContainsAny(user.Email, "<> ") {
		problems = append(problems, "email is invalid")
	}
	switch user.Role {
	case "":
		user.Role = model.RoleUser
	case model.RoleAdmin, model.RoleUser:
	default:
		problems = append(problems, "role must be admin or user")
	}
	if len(problems) > 0 {
		return model.User{}, &ValidationError{Problems: problems}
	}

	user.ID = ""
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.logger.Info("user email already registered", "email", user.Email)
		}
		return model.User{}, err
	}
	return user, nil
}

// AddUserToCompany attaches an existing user to a company.
func (s *Service) AddUserToCompany(ctx context.Context, actor model.User, companyID, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repo.AddUserToCompany(ctx, companyID, userID)
}

func (s *Service) ListCompanyUsers(ctx context.Context, actor model.User, companyID string) ([]model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.repo.ListCompanyUsers(ctx, companyID)
}

func (s *Service) RemoveUserFromCompany(ctx context.Context, actor model.User, companyID, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repo.RemoveUserFromCompany(ctx, companyID, userID)
}
