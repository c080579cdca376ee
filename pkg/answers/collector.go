package answers

import (
	"context"
	"io"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Collector holds the answer set of one fill session. File answers are read
// in the background; until a read completes the previous answer for that field
// stays visible. A later Record or RecordFile for the same field supersedes a
// read that is still running.
type Collector struct {
	mu      sync.Mutex
	answers model.AnswerSet
	gen     map[string]uint64
	pending map[string]struct{}
	wg      sync.WaitGroup
	opts    []EncodeOption
}

// NewCollector starts a collector seeded with initial answers.
func NewCollector(initial model.AnswerSet, options ...EncodeOption) *Collector {
	answers := initial.Clone()
	return &Collector{
		answers: answers,
		gen:     make(map[string]uint64),
		pending: make(map[string]struct{}),
		opts:    options,
	}
}

// Record stores value for field and returns a snapshot of the answers.
func (c *Collector) Record(field model.FieldDefinition, value any) model.AnswerSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen[field.ID]++
	delete(c.pending, field.ID)
	c.answers = RecordField(c.answers, field, value)
	return c.answers.Clone()
}

// RecordFile starts reading r in the background. The returned channel yields
// the read error (nil on success) once the answer set reflects the file, or
// once the read was superseded.
func (c *Collector) RecordFile(ctx context.Context, field model.FieldDefinition, name, mimeType string, r io.Reader) <-chan error {
	done := make(chan error, 1)

	c.mu.Lock()
	c.gen[field.ID]++
	gen := c.gen[field.ID]
	c.pending[field.ID] = struct{}{}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		file, err := EncodeFile(ctx, name, mimeType, r, c.opts...)

		c.mu.Lock()
		if c.gen[field.ID] == gen {
			delete(c.pending, field.ID)
			if err == nil {
				c.answers = RecordField(c.answers, field, file)
			}
		}
		c.mu.Unlock()

		done <- err
		close(done)
	}()
	return done
}

// Answers returns a snapshot of the current answers.
func (c *Collector) Answers() model.AnswerSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.Clone()
}

// Pending reports the number of file reads still in flight.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// IsPending reports whether a file read for fieldID is in flight.
func (c *Collector) IsPending(fieldID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[fieldID]
	return ok
}

// Wait blocks until every background read has finished or ctx ends.
func (c *Collector) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
