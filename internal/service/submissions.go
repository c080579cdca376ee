package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/answers"
	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Report is the outcome of validating a partial answer set.
type Report struct {
	CanSubmit bool                    `json:"canSubmit"`
	Errors    []submission.FieldError `json:"errors"`
}

// Validate checks the answers present in set and reports whether the whole
// set could be submitted. Fields without an answer only affect CanSubmit.
func (s *Service) Validate(ctx context.Context, actor model.User, formID string, set model.AnswerSet) (Report, error) {
	form, err := s.ViewForm(ctx, actor, formID)
	if err != nil {
		return Report{}, err
	}
	_, all := s.checkAnswers(form, set)
	report := Report{CanSubmit: len(all) == 0, Errors: []submission.FieldError{}}
	for _, fe := range all {
		if _, ok := set[fe.FieldID]; ok {
			report.Errors = append(report.Errors, fe)
		}
	}
	return report, nil
}

// Submit runs the gate over set and stores the submission of actor. Answers
// are restricted to the form's fields and relabelled from the current
// schema. A second submission for the same form fails with
// ErrAlreadySubmitted.
func (s *Service) Submit(ctx context.Context, actor model.User, formID string, set model.AnswerSet) (model.Submission, error) {
	form, err := s.ViewForm(ctx, actor, formID)
	if err != nil {
		return model.Submission{}, err
	}
	done, err := s.repo.HasSubmitted(ctx, formID, actor.ID)
	if err != nil {
		return model.Submission{}, err
	}
	if done {
		return model.Submission{}, ErrAlreadySubmitted
	}
	set, errs := s.checkAnswers(form, set)
	if len(errs) > 0 {
		return model.Submission{}, &ValidationError{Fields: errs}
	}

	recorded := model.AnswerSet{}
	for id, answer := range answers.Restrict(form, set) {
		field, _ := form.Field(id)
		if !fieldtypes.Known(field.Type) {
			continue
		}
		recorded = answers.RecordField(recorded, field, answer.Value)
	}

	sub := model.Submission{FormID: form.ID, UserID: actor.ID, Answers: recorded}
	if err := s.repo.CreateSubmission(ctx, &sub); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.logger.Info("submission conflict", "form_id", form.ID, "user_id", actor.ID)
			return model.Submission{}, ErrAlreadySubmitted
		}
		return model.Submission{}, err
	}
	sub.FormTitle = form.Title
	sub.UserName = actor.Name
	s.logger.Info("submission stored", "submission_id", sub.ID, "form_id", form.ID, "user_id", actor.ID)
	s.publish(EventSubmissionCreated, sub)
	return sub, nil
}

// checkAnswers verifies file contents, then runs the gate. A field whose file
// did not decode reports that failure instead of the gate's.
func (s *Service) checkAnswers(form model.FormSchema, set model.AnswerSet) (model.AnswerSet, []submission.FieldError) {
	set, fileErrs := s.gate.VerifyFiles(form, set)
	if len(fileErrs) == 0 {
		return set, s.gate.CollectErrors(form, set)
	}
	byField := make(map[string]submission.FieldError, len(fileErrs))
	for _, fe := range fileErrs {
		byField[fe.FieldID] = fe
	}
	for _, fe := range s.gate.CollectErrors(form, set) {
		if _, ok := byField[fe.FieldID]; !ok {
			byField[fe.FieldID] = fe
		}
	}
	errs := make([]submission.FieldError, 0, len(byField))
	for _, field := range form.Fields {
		if fe, ok := byField[field.ID]; ok {
			errs = append(errs, fe)
		}
	}
	return set, errs
}

// Persist adapts Submit to the fill session.
func (s *Service) Persist(actor model.User, formID string) submission.PersistFunc {
	return func(ctx context.Context, set model.AnswerSet) error {
		_, err := s.Submit(ctx, actor, formID, set)
		return err
	}
}

// MySubmissions lists the actor's own submissions, newest first.
func (s *Service) MySubmissions(ctx context.Context, actor model.User) ([]model.Submission, error) {
	return s.repo.ListSubmissions(ctx, store.SubmissionFilter{UserID: actor.ID})
}

func (s *Service) AllSubmissions(ctx context.Context, actor model.User) ([]model.Submission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repo.ListSubmissions(ctx, store.SubmissionFilter{})
}

func (s *Service) FormSubmissions(ctx context.Context, actor model.User, formID string) ([]model.Submission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetForm(ctx, formID); err != nil {
		return nil, err
	}
	return s.repo.ListSubmissions(ctx, store.SubmissionFilter{FormID: formID})
}

// SetSubmissionStatus records an admin review.
func (s *Service) SetSubmissionStatus(ctx context.Context, actor model.User, id string, status model.SubmissionStatus) (model.Submission, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Submission{}, err
	}
	if !status.Valid() {
		return model.Submission{}, invalid("status %q must be %s or %s", status, model.SubmissionPending, model.SubmissionReviewed)
	}
	if err := s.repo.UpdateSubmissionStatus(ctx, id, status); err != nil {
		return model.Submission{}, err
	}
	sub, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		return model.Submission{}, fmt.Errorf("service: reload submission: %w", err)
	}
	s.publish(EventSubmissionReviewed, sub)
	return sub, nil
}

func (s *Service) publish(kind string, sub model.Submission) {
	if s.events == nil {
		return
	}
	s.events.Publish(Event{Type: kind, Submission: sub})
}
