package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/darasa/core/assignment"
)

const pqUniqueViolation = "23505"

type assignmentRow struct {
	Department     string         `db:"department"`
	ID             string         `db:"id"`
	AssignedBy     string         `db:"assigned_by"`
	Type           string         `db:"type"`
	Subject        string         `db:"subject"`
	Message        string         `db:"message"`
	AttachmentURL  null.String    `db:"attachment_url"`
	AttachmentKind null.String    `db:"attachment_kind"`
	Year           int            `db:"year"`
	Sections       pq.StringArray `db:"sections"`
	CreatedAt      time.Time      `db:"created_at"`
	DueAt          null.Time      `db:"due_at"`
}

func toRow(asg assignment.Assignment) assignmentRow {
	return assignmentRow{
		Department:     asg.Department,
		ID:             asg.ID,
		AssignedBy:     asg.AssignedBy,
		Type:           asg.Type,
		Subject:        asg.Subject,
		Message:        asg.Message,
		AttachmentURL:  null.NewString(asg.AttachmentURL, asg.AttachmentURL != ""),
		AttachmentKind: null.NewString(asg.AttachmentKind, asg.AttachmentKind != ""),
		Year:           asg.Year,
		Sections:       pq.StringArray(asg.Sections),
		CreatedAt:      asg.CreatedAt.UTC(),
		DueAt:          null.NewTime(asg.DueAt.UTC(), !asg.DueAt.IsZero()),
	}
}

func fromRow(row assignmentRow) assignment.Assignment {
	return assignment.Assignment{
		Department:     row.Department,
		ID:             row.ID,
		AssignedBy:     row.AssignedBy,
		Type:           row.Type,
		Subject:        row.Subject,
		Message:        row.Message,
		AttachmentURL:  row.AttachmentURL.String,
		AttachmentKind: row.AttachmentKind.String,
		Year:           row.Year,
		Sections:       []string(row.Sections),
		CreatedAt:      row.CreatedAt,
		DueAt:          row.DueAt.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to assignment.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return assignment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == pqUniqueViolation
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) error {
	const query = `
		INSERT INTO assignment (
			department, id, assigned_by, type, subject, message,
			attachment_url, attachment_kind, year, sections, created_at, due_at
		) VALUES (
			:department, :id, :assigned_by, :type, :subject, :message,
			:attachment_url, :attachment_kind, :year, :sections, :created_at, :due_at
		)`

	if _, err := repo.db.NamedExecContext(ctx, query, toRow(asg)); err != nil {
		if isUniqueViolation(err) {
			return assignment.ErrIDExists
		}
		return errors.Wrap(err, "inserting assignment")
	}
	return nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, department, id string) (assignment.Assignment, error) {
	const query = `SELECT * FROM assignment WHERE department = $1 AND id = $2`

	var row assignmentRow
	if err := repo.db.GetContext(ctx, &row, query, department, id); err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, "finding assignment")
	}
	return fromRow(row), nil
}

func (repo *assignmentRepository) QueryAssignmentsByOwner(ctx context.Context, department, ownerID string, limit int) ([]assignment.Assignment, error) {
	const query = `
		SELECT * FROM assignment
		WHERE department = $1 AND assigned_by = $2
		ORDER BY created_at DESC
		LIMIT $3`

	if limit <= 0 {
		limit = assignment.DefaultQueryLimit
	}

	var rows []assignmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, department, ownerID, limit); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	asgs := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		asgs = append(asgs, fromRow(row))
	}
	return asgs, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, department, id string) error {
	const query = `DELETE FROM assignment WHERE department = $1 AND id = $2`

	res, err := repo.db.ExecContext(ctx, query, department, id)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

type completionRepository struct {
	db *sqlx.DB
}

var _ assignment.CompletionRepository = (*completionRepository)(nil) // interface compliance check

func NewCompletionRepository(db *sqlx.DB) *completionRepository {
	return &completionRepository{db: db}
}

type completionRow struct {
	Department   string      `db:"department"`
	AssignmentID string      `db:"assignment_id"`
	UID          string      `db:"uid"`
	Name         string      `db:"name"`
	RollNo       string      `db:"roll_no"`
	Section      string      `db:"section"`
	FileURL      null.String `db:"file_url"`
	SubmittedAt  time.Time   `db:"submitted_at"`
}

func (repo *completionRepository) QueryCompletions(ctx context.Context, department, assignmentID string, limit int) ([]assignment.Completion, error) {
	const query = `
		SELECT * FROM completion
		WHERE department = $1 AND assignment_id = $2
		ORDER BY roll_no ASC
		LIMIT $3`

	if limit <= 0 {
		limit = assignment.DefaultQueryLimit
	}

	var rows []completionRow
	if err := repo.db.SelectContext(ctx, &rows, query, department, assignmentID, limit); err != nil {
		return nil, errors.Wrap(err, "querying completions")
	}
	completions := make([]assignment.Completion, 0, len(rows))
	for _, row := range rows {
		completions = append(completions, assignment.Completion{
			UID:         row.UID,
			Name:        row.Name,
			RollNo:      row.RollNo,
			Section:     row.Section,
			FileURL:     row.FileURL.String,
			SubmittedAt: row.SubmittedAt,
		})
	}
	return completions, nil
}

// AddCompletion records a student submission; at most one per (assignment, uid).
// Backs the student side, not the staff service.
func (repo *completionRepository) AddCompletion(ctx context.Context, department, assignmentID string, c assignment.Completion) error {
	const query = `
		INSERT INTO completion (department, assignment_id, uid, name, roll_no, section, file_url, submitted_at)
		VALUES (:department, :assignment_id, :uid, :name, :roll_no, :section, :file_url, :submitted_at)`

	row := completionRow{
		Department:   department,
		AssignmentID: assignmentID,
		UID:          c.UID,
		Name:         c.Name,
		RollNo:       c.RollNo,
		Section:      c.Section,
		FileURL:      null.NewString(c.FileURL, c.FileURL != ""),
		SubmittedAt:  c.SubmittedAt.UTC(),
	}
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return assignment.ErrIDExists
		}
		return errors.Wrap(err, "inserting completion")
	}
	return nil
}

// SweepOrphanCompletions deletes completion records whose parent assignment
// is gone. Deleting an assignment never cascades here at runtime; the admin
// CLI runs this out-of-band.
func (repo *completionRepository) SweepOrphanCompletions(ctx context.Context) (int, error) {
	const query = `
		DELETE FROM completion c
		WHERE NOT EXISTS (
			SELECT 1 FROM assignment a
			WHERE a.department = c.department AND a.id = c.assignment_id
		)`

	res, err := repo.db.ExecContext(ctx, query)
	if err != nil {
		return 0, errors.Wrap(err, "sweeping orphan completions")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting swept completions")
	}
	return int(cnt), nil
}
