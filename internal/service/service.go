// Package service holds the application rules: who may see or change what,
// schema checks on save and the submission flow.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Event types published on submission changes.
const (
	EventSubmissionCreated  = "submission.created"
	EventSubmissionReviewed = "submission.status"
)

// Event is published after a submission is stored or its status changes.
type Event struct {
	Type       string           `json:"type"`
	Submission model.Submission `json:"submission"`
}

// Publisher receives events. Publishing must not block.
type Publisher interface {
	Publish(event Event)
}

// Option configures a Service.
type Option func(*Service)

func WithGate(gate *submission.Gate) Option {
	return func(s *Service) {
		if gate != nil {
			s.gate = gate
		}
	}
}

func WithThemes(themes *branding.Selector) Option {
	return func(s *Service) {
		if themes != nil {
			s.themes = themes
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service implements the use cases behind the HTTP API and the CLI. Every
// method takes the acting user explicitly.
type Service struct {
	repo   store.Repository
	gate   *submission.Gate
	themes *branding.Selector
	events Publisher
	logger *slog.Logger
}

// New builds a Service over repo.
func New(repo store.Repository, options ...Option) *Service {
	s := &Service{
		repo:   repo,
		gate:   submission.NewGate(),
		themes: branding.NewSelector(""),
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Gate exposes the submission gate, for callers that drive a fill session.
func (s *Service) Gate() *submission.Gate {
	return s.gate
}

// Authenticate loads the acting user by id.
func (s *Service) Authenticate(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, ErrUnauthenticated
	}
	user, err := s.repo.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, ErrUnauthenticated
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Theme resolves the renderer theme of form for the given variant.
func (s *Service) Theme(ctx context.Context, form model.FormSchema, variant string) (*theme.RendererConfig, error) {
	var company *model.Company
	if form.CompanyID != "" {
		c, err := s.repo.GetCompany(ctx, form.CompanyID)
		switch {
		case err == nil:
			company = &c
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}
	return s.themes.ForForm(company, form, variant)
}

func requireAdmin(actor model.User) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

func member(actor model.User, companyID string) bool {
	return actor.IsAdmin() || slices.Contains(actor.CompanyIDs, companyID)
}
