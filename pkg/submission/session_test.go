package submission

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func TestSession_FieldTransitions(t *testing.T) {
	s := NewSession(twoRequiredSchema(), nil, nil)

	if s.Field("a").Touched {
		t.Fatalf("field should start untouched")
	}
	res, err := s.Change("a", "")
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if res.Valid || res.Kind != validation.Required {
		t.Fatalf("unexpected result: %+v", res)
	}
	state := s.Field("a")
	if !state.Touched || state.Result.Kind != validation.Required {
		t.Fatalf("unexpected field state: %+v", state)
	}

	if _, err := s.Change("zzz", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSession_SubmitRejectsInvalidAnswers(t *testing.T) {
	s := NewSession(twoRequiredSchema(), nil, nil)
	if _, err := s.Change("a", "ok"); err != nil {
		t.Fatalf("change: %v", err)
	}

	called := false
	err := s.Submit(context.Background(), func(context.Context, model.AnswerSet) error {
		called = true
		return nil
	})
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidError, got %v", err)
	}
	if called {
		t.Fatalf("persist must not run for invalid answers")
	}
	if len(invalid.Errors) != 1 || invalid.Errors[0].FieldID != "b" {
		t.Fatalf("unexpected errors: %#v", invalid.Errors)
	}
	if !s.Field("b").Touched {
		t.Fatalf("failed submit should mark every field touched")
	}
	if s.State() != StateEditable {
		t.Fatalf("state = %s", s.State())
	}
}

func TestSession_SubmitFailureKeepsAnswers(t *testing.T) {
	s := NewSession(twoRequiredSchema(), nil, nil)
	s.Change("a", "ok")
	s.Change("b", "ana@acme.com")
	before := s.Answers()

	boom := errors.New("connection reset")
	err := s.Submit(context.Background(), func(context.Context, model.AnswerSet) error {
		if s.State() != StateSubmitting {
			t.Errorf("state during persist = %s", s.State())
		}
		if _, err := s.Change("a", "late"); !errors.Is(err, ErrNotEditable) {
			t.Errorf("edits during submit should fail, got %v", err)
		}
		return boom
	})
	if !errors.Is(err, ErrSubmitFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if s.State() != StateSubmitFailed {
		t.Fatalf("state = %s", s.State())
	}
	if diff := cmp.Diff(before, s.Answers()); diff != "" {
		t.Fatalf("answers lost after failure (-want +got):\n%s", diff)
	}

	var stored model.AnswerSet
	if err := s.Submit(context.Background(), func(_ context.Context, got model.AnswerSet) error {
		stored = got
		return nil
	}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s.State() != StateSubmitted {
		t.Fatalf("state = %s", s.State())
	}
	if stored["b"].Label != "B" || stored["b"].Type != model.FieldTypeEmail {
		t.Fatalf("answers should carry label and type: %#v", stored["b"])
	}
	if _, err := s.Change("a", "again"); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("submitted session must reject edits, got %v", err)
	}
}

func TestSession_PendingFileBlocksSubmit(t *testing.T) {
	schema := model.FormSchema{Fields: []model.FieldDefinition{
		{ID: "doc", Type: model.FieldTypeFile, Label: "Doc", Validations: model.Rules{"required": true, "maxSize": 1}},
	}}
	s := NewSession(schema, nil, nil)

	pr, pw := io.Pipe()
	done, err := s.ChangeFile(context.Background(), "doc", "a.txt", "text/plain", pr)
	if err != nil {
		t.Fatalf("change file: %v", err)
	}
	if s.CanSubmit() {
		t.Fatalf("CanSubmit must be false while reading")
	}
	if err := s.Submit(context.Background(), func(context.Context, model.AnswerSet) error { return nil }); !errors.Is(err, ErrFilesPending) {
		t.Fatalf("expected ErrFilesPending, got %v", err)
	}

	pw.Write([]byte("hello"))
	pw.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("read did not finish")
	}

	if !s.Field("doc").Touched || !s.Field("doc").Result.Valid {
		t.Fatalf("file field should be touched and valid: %+v", s.Field("doc"))
	}
	if !s.CanSubmit() {
		t.Fatalf("CanSubmit should be true once the file is read")
	}
}

func TestSession_FileReadDoesNotOverwriteLaterChange(t *testing.T) {
	schema := model.FormSchema{Fields: []model.FieldDefinition{
		{ID: "doc", Type: model.FieldTypeFile, Label: "Doc"},
	}}

	for i := 0; i < 50; i++ {
		s := NewSession(schema, nil, nil)
		pr, pw := io.Pipe()
		done, err := s.ChangeFile(context.Background(), "doc", "a.txt", "text/plain", pr)
		if err != nil {
			t.Fatalf("change file: %v", err)
		}

		go func() {
			pw.Write([]byte("hello"))
			pw.Close()
		}()
		if _, err := s.Change("doc", nil); err != nil {
			t.Fatalf("change: %v", err)
		}

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("read did not finish")
		}

		state := s.Field("doc")
		if diff := cmp.Diff(s.Answers().Value("doc"), state.Value); diff != "" {
			t.Fatalf("iteration %d: field state disagrees with answers (-answers +state):\n%s", i, diff)
		}
	}
}
