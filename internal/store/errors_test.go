package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateSubmissionMapsPostgresUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO form_submissions").
		WithArgs(sqlmock.AnyArg(), "f1", "u1", "{}", sqlmock.AnyArg(), "pending").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	sub := model.Submission{FormID: "f1", UserID: "u1"}
	err := s.CreateSubmission(context.Background(), &sub)
	assert.ErrorIs(t, err, ErrConflict)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr), "driver error stays in the chain")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFormMapsForeignKeyViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO forms").
		WillReturnError(&pq.Error{Code: "23503"})

	form := model.FormSchema{Title: "x", CompanyID: "missing"}
	assert.ErrorIs(t, s.CreateForm(context.Background(), &form), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFormNoRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM forms WHERE id = ?").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "company_id", "fields", "theme", "created_at", "updated_at"}))

	_, err := s.GetForm(context.Background(), "f1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransientFailurePassesThrough(t *testing.T) {
	s, mock := newMockStore(t)
	down := errors.New("connection reset")

	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM form_submissions").
		WithArgs("f1", "u1").
		WillReturnError(down)

	_, err := s.HasSubmitted(context.Background(), "f1", "u1")
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFormZeroRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE forms SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	form := model.FormSchema{ID: "gone", Title: "x"}
	assert.ErrorIs(t, s.UpdateForm(context.Background(), &form), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserRollsBackOnMembershipFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM company_users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO company_users").
		WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	u := model.User{Name: "Ana", Email: "ana@example.com", CompanyIDs: []string{"c1"}}
	assert.ErrorIs(t, s.CreateUser(context.Background(), &u), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
