package store

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// SubmissionFilter narrows ListSubmissions. Empty fields match everything.
type SubmissionFilter struct {
	FormID string
	UserID string
}

// Repository is the persistence contract the services depend on.
type Repository interface {
	CreateCompany(ctx context.Context, company *model.Company) error
	UpdateCompany(ctx context.Context, company *model.Company) error
	DeleteCompany(ctx context.Context, id string) error
	GetCompany(ctx context.Context, id string) (model.Company, error)
	ListCompanies(ctx context.Context) ([]model.Company, error)

	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (model.User, error)
	AddUserToCompany(ctx context.Context, companyID, userID string) error
	RemoveUserFromCompany(ctx context.Context, companyID, userID string) error
	ListCompanyUsers(ctx context.Context, companyID string) ([]model.User, error)

	CreateForm(ctx context.Context, form *model.FormSchema) error
	UpdateForm(ctx context.Context, form *model.FormSchema) error
	DeleteForm(ctx context.Context, id string) error
	GetForm(ctx context.Context, id string) (model.FormSchema, error)
	// ListForms returns forms of the given companies, or all forms when none
	// are given, ordered by title.
	ListForms(ctx context.Context, companyIDs ...string) ([]model.FormSchema, error)

	CreateSubmission(ctx context.Context, submission *model.Submission) error
	GetSubmission(ctx context.Context, id string) (model.Submission, error)
	HasSubmitted(ctx context.Context, formID, userID string) (bool, error)
	// SubmittedForms returns the ids of forms userID has answered.
	SubmittedForms(ctx context.Context, userID string) (map[string]bool, error)
	// ListSubmissions returns submissions newest first with form title and
	// user name filled.
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id string, status model.SubmissionStatus) error
}
