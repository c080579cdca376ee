package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type tickClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	clock := &tickClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	s, err := Open(context.Background(), DriverSQLite, dsn, append([]Option{WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCompany(t *testing.T, s *Store, name string) model.Company {
	t.Helper()
	c := model.Company{Name: name, BackgroundColor: "#fff", PrimaryColor: "#000", SecondaryColor: "#111"}
	require.NoError(t, s.CreateCompany(context.Background(), &c))
	return c
}

func seedUser(t *testing.T, s *Store, name, email string, companies ...string) model.User {
	t.Helper()
	u := model.User{Name: name, Email: email, CompanyIDs: companies}
	require.NoError(t, s.CreateUser(context.Background(), &u))
	return u
}

func sampleForm(companyID string) model.FormSchema {
	return model.FormSchema{
		Title:     "Cadastro",
		CompanyID: companyID,
		Fields: []model.FieldDefinition{
			{ID: "name", Type: model.FieldTypeText, Label: "Nome", Validations: model.Rules{"required": true, "minLength": float64(3)}},
			{ID: "email", Type: model.FieldTypeEmail, Label: "E-mail"},
		},
		Theme: &model.ThemeConfig{PrimaryColor: "#123456"},
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), DriverSQLite, dsn)
		require.NoError(t, err)
		var version int
		require.NoError(t, s.db.Get(&version, "PRAGMA user_version"))
		assert.Equal(t, currentSchemaVersion, version)
		require.NoError(t, s.Close())
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	require.Error(t, err)
}

func TestCompanyCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	c := seedCompany(t, s, "Acme")
	require.NotEmpty(t, c.ID)

	got, err := s.GetCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.True(t, got.CreatedAt.Equal(c.CreatedAt))

	c.Name = "Acme Ltda"
	require.NoError(t, s.UpdateCompany(ctx, &c))
	got, err = s.GetCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltda", got.Name)

	seedCompany(t, s, "Beta")
	list, err := s.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme Ltda", list[0].Name)

	require.NoError(t, s.DeleteCompany(ctx, c.ID))
	_, err = s.GetCompany(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteCompany(ctx, c.ID), ErrNotFound)
	missing := model.Company{ID: "nope", Name: "x"}
	assert.ErrorIs(t, s.UpdateCompany(ctx, &missing), ErrNotFound)
}

func TestUsersAndMemberships(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	acme := seedCompany(t, s, "Acme")
	beta := seedCompany(t, s, "Beta")

	u := seedUser(t, s, "Ana", " Ana@Example.com ", acme.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)

	dup := model.User{Name: "Other", Email: "ana@example.com"}
	assert.ErrorIs(t, s.CreateUser(ctx, &dup), ErrConflict)

	bad := model.User{Name: "Ghost", Email: "ghost@example.com", CompanyIDs: []string{"missing"}}
	assert.ErrorIs(t, s.CreateUser(ctx, &bad), ErrNotFound)
	_, err := s.GetUser(ctx, bad.ID)
	assert.ErrorIs(t, err, ErrNotFound, "failed membership must roll back the user")

	require.NoError(t, s.AddUserToCompany(ctx, beta.ID, u.ID))
	require.NoError(t, s.AddUserToCompany(ctx, beta.ID, u.ID))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{acme.ID, beta.ID}, got.CompanyIDs)

	members, err := s.ListCompanyUsers(ctx, beta.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, []string{beta.ID}, members[0].CompanyIDs)

	require.NoError(t, s.RemoveUserFromCompany(ctx, beta.ID, u.ID))
	assert.ErrorIs(t, s.RemoveUserFromCompany(ctx, beta.ID, u.ID), ErrNotFound)
}

func TestFormRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	acme := seedCompany(t, s, "Acme")

	form := sampleForm(acme.ID)
	require.NoError(t, s.CreateForm(ctx, &form))

	got, err := s.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, form.Fields, got.Fields)
	assert.Equal(t, form.Theme, got.Theme)
	assert.Equal(t, acme.ID, got.CompanyID)

	form.Theme = nil
	form.Fields = nil
	require.NoError(t, s.UpdateForm(ctx, &form))
	got, err = s.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Theme)
	assert.Equal(t, []model.FieldDefinition{}, got.Fields)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	orphan := sampleForm("missing")
	assert.ErrorIs(t, s.CreateForm(ctx, &orphan), ErrNotFound)
}

func TestListFormsByCompany(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	acme := seedCompany(t, s, "Acme")
	beta := seedCompany(t, s, "Beta")
	gamma := seedCompany(t, s, "Gamma")

	for _, companyID := range []string{acme.ID, beta.ID, gamma.ID} {
		f := sampleForm(companyID)
		f.Title = "Form " + companyID
		require.NoError(t, s.CreateForm(ctx, &f))
	}

	all, err := s.ListForms(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := s.ListForms(ctx, acme.ID, gamma.ID)
	require.NoError(t, err)
	require.Len(t, some, 2)
	for _, f := range some {
		assert.NotEqual(t, beta.ID, f.CompanyID)
	}
}

func TestMalformedColumnsDegrade(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	s := openTestStore(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	acme := seedCompany(t, s, "Acme")
	form := sampleForm(acme.ID)
	require.NoError(t, s.CreateForm(ctx, &form))

	_, err := s.db.Exec(`UPDATE forms SET fields = '{broken', theme = 'nope' WHERE id = ?`, form.ID)
	require.NoError(t, err)

	got, err := s.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.FieldDefinition{}, got.Fields)
	assert.Nil(t, got.Theme)
	assert.Contains(t, logs.String(), "malformed fields payload")
	assert.Contains(t, logs.String(), form.ID)
}

func TestSubmissions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	acme := seedCompany(t, s, "Acme")
	form := sampleForm(acme.ID)
	require.NoError(t, s.CreateForm(ctx, &form))
	ana := seedUser(t, s, "Ana", "ana@example.com", acme.ID)
	bia := seedUser(t, s, "Bia", "bia@example.com", acme.ID)

	first := model.Submission{FormID: form.ID, UserID: ana.ID, Answers: model.AnswerSet{
		"name": {Label: "Nome", Type: model.FieldTypeText, Value: "Ana"},
	}}
	require.NoError(t, s.CreateSubmission(ctx, &first))
	assert.Equal(t, model.SubmissionPending, first.Status)

	again := model.Submission{FormID: form.ID, UserID: ana.ID}
	assert.ErrorIs(t, s.CreateSubmission(ctx, &again), ErrConflict)

	second := model.Submission{FormID: form.ID, UserID: bia.ID}
	require.NoError(t, s.CreateSubmission(ctx, &second))

	done, err := s.HasSubmitted(ctx, form.ID, ana.ID)
	require.NoError(t, err)
	assert.True(t, done)

	forms, err := s.SubmittedForms(ctx, bia.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{form.ID: true}, forms)

	all, err := s.ListSubmissions(ctx, SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, "Cadastro", all[0].FormTitle)
	assert.Equal(t, "Bia", all[0].UserName)

	own, err := s.ListSubmissions(ctx, SubmissionFilter{UserID: ana.ID, FormID: form.ID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Ana", own[0].Answers.Value("name"))

	require.NoError(t, s.UpdateSubmissionStatus(ctx, first.ID, model.SubmissionReviewed))
	got, err := s.GetSubmission(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionReviewed, got.Status)
	assert.Error(t, s.UpdateSubmissionStatus(ctx, first.ID, "archived"))
	assert.ErrorIs(t, s.UpdateSubmissionStatus(ctx, "missing", model.SubmissionReviewed), ErrNotFound)

	require.NoError(t, s.DeleteForm(ctx, form.ID))
	all, err = s.ListSubmissions(ctx, SubmissionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "deleting a form removes its submissions")
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx *Store) error {
		c := model.Company{Name: "Temp"}
		if err := tx.CreateCompany(ctx, &c); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := s.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConcurrentSubmissionsOneWins(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	acme := seedCompany(t, s, "Acme")
	form := sampleForm(acme.ID)
	require.NoError(t, s.CreateForm(ctx, &form))
	ana := seedUser(t, s, "Ana", "ana@example.com", acme.ID)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, dupes int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := model.Submission{FormID: form.ID, UserID: ana.ID}
			err := s.CreateSubmission(ctx, &sub)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 4, dupes)
}

func TestClassifyLeavesOtherErrors(t *testing.T) {
	err := errors.New("disk on fire")
	assert.Equal(t, err, classify(err))
	assert.Nil(t, classify(nil))
	assert.True(t, strings.Contains(classify(err).Error(), "fire"))
}
