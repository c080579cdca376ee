package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type submissionRow struct {
	ID          string    `db:"id"`
	FormID      string    `db:"form_id"`
	UserID      string    `db:"user_id"`
	Answers     string    `db:"answers"`
	SubmittedAt time.Time `db:"submitted_at"`
	Status      string    `db:"status"`
	FormTitle   string    `db:"form_title"`
	UserName    string    `db:"user_name"`
}

const submissionSelect = `SELECT s.id, s.form_id, s.user_id, s.answers, s.submitted_at, s.status,
	COALESCE(f.title, '') AS form_title, COALESCE(u.name, '') AS user_name
	FROM form_submissions s
	LEFT JOIN forms f ON f.id = s.form_id
	LEFT JOIN users u ON u.id = s.user_id`

func (s *Store) submission(row submissionRow) model.Submission {
	return model.Submission{
		ID:          row.ID,
		FormID:      row.FormID,
		UserID:      row.UserID,
		Answers:     model.DecodeAnswers([]byte(row.Answers), s.logger, "column", "form_submissions.answers", "submission_id", row.ID),
		SubmittedAt: row.SubmittedAt,
		Status:      model.SubmissionStatus(row.Status),
		FormTitle:   row.FormTitle,
		UserName:    row.UserName,
	}
}

// CreateSubmission inserts a pending submission. The (form, user) unique
// constraint makes a second submission fail with ErrConflict.
func (s *Store) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Status == "" {
		sub.Status = model.SubmissionPending
	}
	answers, err := model.EncodeAnswers(sub.Answers)
	if err != nil {
		return fmt.Errorf("store: create submission: %w", err)
	}
	sub.SubmittedAt = s.timestamp()
	_, err = s.execContext(ctx,
		`INSERT INTO form_submissions (id, form_id, user_id, answers, submitted_at, status) VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.FormID, sub.UserID, string(answers), sub.SubmittedAt, string(sub.Status),
	)
	if err != nil {
		return fmt.Errorf("store: create submission: %w", classify(err))
	}
	return nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	var row submissionRow
	if err := s.getContext(ctx, &row, submissionSelect+` WHERE s.id = ?`, id); err != nil {
		return model.Submission{}, fmt.Errorf("store: get submission %s: %w", id, classify(err))
	}
	return s.submission(row), nil
}

func (s *Store) HasSubmitted(ctx context.Context, formID, userID string) (bool, error) {
	var n int
	err := s.getContext(ctx, &n,
		`SELECT COUNT(1) FROM form_submissions WHERE form_id = ? AND user_id = ?`, formID, userID)
	if err != nil {
		return false, fmt.Errorf("store: has submitted: %w", classify(err))
	}
	return n > 0, nil
}

func (s *Store) SubmittedForms(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	if err := s.selectContext(ctx, &ids, `SELECT form_id FROM form_submissions WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("store: submitted forms: %w", classify(err))
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (s *Store) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error) {
	var (
		where []string
		args  []any
	)
	if filter.FormID != "" {
		where = append(where, "s.form_id = ?")
		args = append(args, filter.FormID)
	}
	if filter.UserID != "" {
		where = append(where, "s.user_id = ?")
		args = append(args, filter.UserID)
	}
	query := submissionSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.submitted_at DESC, s.id DESC"

	var rows []submissionRow
	if err := s.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("store: list submissions: %w", classify(err))
	}
	out := make([]model.Submission, len(rows))
	for i, row := range rows {
		out[i] = s.submission(row)
	}
	return out, nil
}

func (s *Store) UpdateSubmissionStatus(ctx context.Context, id string, status model.SubmissionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("store: invalid submission status %q", status)
	}
	if err := s.execOne(ctx, `UPDATE form_submissions SET status = ? WHERE id = ?`, string(status), id); err != nil {
		return fmt.Errorf("store: update submission %s: %w", id, err)
	}
	return nil
}
