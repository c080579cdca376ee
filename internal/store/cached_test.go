package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type countingRepo struct {
	Repository
	formReads    int
	companyReads int
}

func (c *countingRepo) GetForm(ctx context.Context, id string) (model.FormSchema, error) {
	c.formReads++
	return c.Repository.GetForm(ctx, id)
}

func (c *countingRepo) GetCompany(ctx context.Context, id string) (model.Company, error) {
	c.companyReads++
	return c.Repository.GetCompany(ctx, id)
}

func TestCachedFormsInvalidateOnMutation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	acme := seedCompany(t, s, "Acme")
	inner := &countingRepo{Repository: s}
	cached := NewCached(inner)

	form := sampleForm(acme.ID)
	require.NoError(t, cached.CreateForm(ctx, &form))

	for i := 0; i < 3; i++ {
		_, err := cached.GetForm(ctx, form.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inner.formReads)

	got, err := cached.GetForm(ctx, form.ID)
	require.NoError(t, err)
	got.Fields[0].Label = "mutated"
	got.Fields[0].Validations["required"] = false
	again, err := cached.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nome", again.Fields[0].Label, "cache entries are isolated from callers")
	assert.Equal(t, true, again.Fields[0].Validations["required"])

	form.Title = "Novo"
	require.NoError(t, cached.UpdateForm(ctx, &form))
	got, err = cached.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novo", got.Title)
	assert.Equal(t, 2, inner.formReads)

	require.NoError(t, cached.DeleteForm(ctx, form.ID))
	_, err = cached.GetForm(ctx, form.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedCompanyDeleteDropsForms(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	inner := &countingRepo{Repository: s}
	cached := NewCached(inner)

	acme := model.Company{Name: "Acme"}
	require.NoError(t, cached.CreateCompany(ctx, &acme))
	form := sampleForm(acme.ID)
	require.NoError(t, cached.CreateForm(ctx, &form))

	_, err := cached.GetCompany(ctx, acme.ID)
	require.NoError(t, err)
	_, err = cached.GetCompany(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.companyReads)
	_, err = cached.GetForm(ctx, form.ID)
	require.NoError(t, err)

	require.NoError(t, cached.DeleteCompany(ctx, acme.ID))
	_, err = cached.GetCompany(ctx, acme.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = cached.GetForm(ctx, form.ID)
	assert.ErrorIs(t, err, ErrNotFound, "forms of a deleted company are not served from cache")
}

// racingRepo runs a hook after the first read returns from the database and
// before the cache sees the result.
type racingRepo struct {
	Repository
	afterFormRead    func()
	afterCompanyRead func()
}

func (r *racingRepo) GetForm(ctx context.Context, id string) (model.FormSchema, error) {
	form, err := r.Repository.GetForm(ctx, id)
	if hook := r.afterFormRead; hook != nil {
		r.afterFormRead = nil
		hook()
	}
	return form, err
}

func (r *racingRepo) GetCompany(ctx context.Context, id string) (model.Company, error) {
	company, err := r.Repository.GetCompany(ctx, id)
	if hook := r.afterCompanyRead; hook != nil {
		r.afterCompanyRead = nil
		hook()
	}
	return company, err
}

func TestCachedMissDoesNotStoreStaleRead(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	inner := &racingRepo{Repository: s}
	cached := NewCached(inner)

	acme := model.Company{Name: "Acme"}
	require.NoError(t, cached.CreateCompany(ctx, &acme))
	form := sampleForm(acme.ID)
	require.NoError(t, cached.CreateForm(ctx, &form))

	inner.afterFormRead = func() {
		updated := form
		updated.Title = "Novo"
		require.NoError(t, cached.UpdateForm(ctx, &updated))
	}
	got, err := cached.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cadastro", got.Title)
	got, err = cached.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novo", got.Title)

	inner.afterCompanyRead = func() {
		updated := acme
		updated.Name = "Acme Ltda"
		require.NoError(t, cached.UpdateCompany(ctx, &updated))
	}
	company, err := cached.GetCompany(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	company, err = cached.GetCompany(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltda", company.Name)
}

func TestCachedMissDoesNotRefillAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	acme := seedCompany(t, s, "Acme")
	inner := &racingRepo{Repository: s}
	cached := NewCached(inner)

	form := sampleForm(acme.ID)
	require.NoError(t, cached.CreateForm(ctx, &form))
	inner.afterFormRead = func() {
		updated := form
		updated.Title = "Direto"
		require.NoError(t, s.UpdateForm(ctx, &updated))
		cached.Invalidate()
	}
	_, err := cached.GetForm(ctx, form.ID)
	require.NoError(t, err)
	got, err := cached.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Direto", got.Title)
}
