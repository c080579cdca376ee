package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Cached decorates a Repository with id-keyed caches for forms and
// companies. Every mutation through Cached invalidates the affected entries;
// writes that bypass it are not observed.
//
// A miss only fills the cache when no invalidation touched the entry while
// the underlying read was in flight. Per-id generations track single
// entries and epoch tracks whole-cache clears.
type Cached struct {
	Repository

	mu         sync.RWMutex
	forms      map[string]model.FormSchema
	companies  map[string]model.Company
	formGen    map[string]uint64
	companyGen map[string]uint64
	epoch      uint64
}

var _ Repository = (*Cached)(nil)

// NewCached wraps next.
func NewCached(next Repository) *Cached {
	return &Cached{
		Repository: next,
		forms:      map[string]model.FormSchema{},
		companies:  map[string]model.Company{},
		formGen:    map[string]uint64{},
		companyGen: map[string]uint64{},
	}
}

func (c *Cached) GetForm(ctx context.Context, id string) (model.FormSchema, error) {
	c.mu.RLock()
	form, ok := c.forms[id]
	gen, epoch := c.formGen[id], c.epoch
	c.mu.RUnlock()
	if ok {
		return cloneForm(form), nil
	}
	form, err := c.Repository.GetForm(ctx, id)
	if err != nil {
		return model.FormSchema{}, err
	}
	c.mu.Lock()
	if c.formGen[id] == gen && c.epoch == epoch {
		c.forms[id] = cloneForm(form)
	}
	c.mu.Unlock()
	return form, nil
}

func (c *Cached) UpdateForm(ctx context.Context, form *model.FormSchema) error {
	defer c.dropForm(form.ID)
	return c.Repository.UpdateForm(ctx, form)
}

func (c *Cached) DeleteForm(ctx context.Context, id string) error {
	defer c.dropForm(id)
	return c.Repository.DeleteForm(ctx, id)
}

func (c *Cached) GetCompany(ctx context.Context, id string) (model.Company, error) {
	c.mu.RLock()
	company, ok := c.companies[id]
	gen, epoch := c.companyGen[id], c.epoch
	c.mu.RUnlock()
	if ok {
		return company, nil
	}
	company, err := c.Repository.GetCompany(ctx, id)
	if err != nil {
		return model.Company{}, err
	}
	c.mu.Lock()
	if c.companyGen[id] == gen && c.epoch == epoch {
		c.companies[id] = company
	}
	c.mu.Unlock()
	return company, nil
}

func (c *Cached) UpdateCompany(ctx context.Context, company *model.Company) error {
	defer c.dropCompany(company.ID)
	return c.Repository.UpdateCompany(ctx, company)
}

// DeleteCompany also clears every cached form, since the company's forms are
// removed with it.
func (c *Cached) DeleteCompany(ctx context.Context, id string) error {
	defer func() {
		c.dropCompany(id)
		c.mu.Lock()
		c.forms = map[string]model.FormSchema{}
		c.epoch++
		c.mu.Unlock()
	}()
	return c.Repository.DeleteCompany(ctx, id)
}

// Invalidate empties both caches.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forms = map[string]model.FormSchema{}
	c.companies = map[string]model.Company{}
	c.epoch++
}

func (c *Cached) dropForm(id string) {
	c.mu.Lock()
	delete(c.forms, id)
	c.formGen[id]++
	c.mu.Unlock()
}

func (c *Cached) dropCompany(id string) {
	c.mu.Lock()
	delete(c.companies, id)
	c.companyGen[id]++
	c.mu.Unlock()
}

// cloneForm copies the field slice and rule maps so callers cannot mutate
// cached entries.
func cloneForm(form model.FormSchema) model.FormSchema {
	fields := make([]model.FieldDefinition, len(form.Fields))
	for i, field := range form.Fields {
		field.Validations = field.Validations.Clone()
		fields[i] = field
	}
	form.Fields = fields
	if form.Theme != nil {
		theme := *form.Theme
		form.Theme = &theme
	}
	return form
}
