package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `application_id, job_id, candidate_id, resume_text, current_round,
	status, history, version, created_at, updated_at`

func (r *Repository) CreateApplication(ctx context.Context, app *model.Application) error {
	resume, err := r.seal(app.ResumeText)
	if err != nil {
		return err
	}
	if app.History == nil {
		app.History = []model.RoundResult{}
	}
	history, err := json.Marshal(app.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	const q = `
INSERT INTO applications (application_id, job_id, candidate_id, resume_text, current_round, status, history, version)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, 1)
RETURNING version, created_at, updated_at
`
	err = r.db.QueryRow(ctx, q,
		app.ApplicationID, app.JobID, app.CandidateID, resume, app.CurrentRound, app.Status, history,
	).Scan(&app.Version, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("application for job %s: %w", app.JobID, ErrDuplicate)
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *Repository) scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	var history []byte
	err := row.Scan(
		&a.ApplicationID, &a.JobID, &a.CandidateID, &a.ResumeText, &a.CurrentRound,
		&a.Status, &history, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	a.History = []model.RoundResult{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &a.History); err != nil {
			return nil, fmt.Errorf("unmarshal history: %w", err)
		}
	}
	if a.ResumeText, err = r.open(a.ResumeText); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) GetApplication(ctx context.Context, applicationID uuid.UUID) (*model.Application, error) {
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = $1`
	return r.scanApplication(r.db.QueryRow(ctx, q, applicationID))
}

func (r *Repository) FindApplication(ctx context.Context, jobID, candidateID uuid.UUID) (*model.Application, error) {
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 AND candidate_id = $2`
	return r.scanApplication(r.db.QueryRow(ctx, q, jobID, candidateID))
}

// UpdateApplication writes status, round and history only if the stored
// version still equals app.Version. On success app.Version is advanced.
func (r *Repository) UpdateApplication(ctx context.Context, app *model.Application) error {
	history, err := json.Marshal(app.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	const q = `
UPDATE applications
SET status = $1, current_round = $2, history = $3::jsonb, version = version + 1, updated_at = now()
WHERE application_id = $4 AND version = $5
RETURNING version, updated_at
`
	return r.execTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, q, app.Status, app.CurrentRound, history, app.ApplicationID, app.Version).
			Scan(&app.Version, &app.UpdatedAt)
		if err == nil {
			return nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return missOrConflict(ctx, tx, app.ApplicationID)
		}
		return fmt.Errorf("update application: %w", err)
	})
}

func missOrConflict(ctx context.Context, tx pgx.Tx, applicationID uuid.UUID) error {
	var exists bool
	const q = `SELECT EXISTS (SELECT 1 FROM applications WHERE application_id = $1)`
	if err := tx.QueryRow(ctx, q, applicationID).Scan(&exists); err != nil {
		return fmt.Errorf("check application exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionConflict
}

func (r *Repository) queryApplications(ctx context.Context, q string, args ...interface{}) ([]model.Application, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	out := make([]model.Application, 0, 8)
	for rows.Next() {
		a, err := r.scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

func (r *Repository) ListApplicationsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Application, error) {
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE candidate_id = $1 ORDER BY created_at DESC`
	return r.queryApplications(ctx, q, candidateID)
}

func (r *Repository) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`
	return r.queryApplications(ctx, q, jobID)
}

// ListApplicationsByJobs returns applications for any of jobIDs, newest first.
func (r *Repository) ListApplicationsByJobs(ctx context.Context, jobIDs []uuid.UUID) ([]model.Application, error) {
	if len(jobIDs) == 0 {
		return []model.Application{}, nil
	}
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = ANY($1) ORDER BY created_at DESC`
	return r.queryApplications(ctx, q, jobIDs)
}
