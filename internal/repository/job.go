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

const jobColumns = `job_id, company_id, title, description, skills, rounds, status, created_at, updated_at`

func (r *Repository) CreateJob(ctx context.Context, job *model.JobOpening) error {
	rounds, err := json.Marshal(job.Rounds)
	if err != nil {
		return fmt.Errorf("marshal rounds: %w", err)
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	const q = `
INSERT INTO job_openings (job_id, company_id, title, description, skills, rounds, status)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
RETURNING created_at, updated_at
`
	err = r.db.QueryRow(ctx, q,
		job.JobID, job.CompanyID, job.Title, job.Description, job.Skills, rounds, job.Status,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func scanJob(row pgx.Row) (*model.JobOpening, error) {
	var j model.JobOpening
	var rounds []byte
	err := row.Scan(&j.JobID, &j.CompanyID, &j.Title, &j.Description, &j.Skills, &rounds, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	j.Rounds = []model.Round{}
	if len(rounds) > 0 {
		if err := json.Unmarshal(rounds, &j.Rounds); err != nil {
			return nil, fmt.Errorf("unmarshal rounds: %w", err)
		}
	}
	return &j, nil
}

func (r *Repository) GetJob(ctx context.Context, jobID uuid.UUID) (*model.JobOpening, error) {
	q := `SELECT ` + jobColumns + ` FROM job_openings WHERE job_id = $1`
	return scanJob(r.db.QueryRow(ctx, q, jobID))
}

func (r *Repository) queryJobs(ctx context.Context, q string, args ...interface{}) ([]model.JobOpening, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	out := make([]model.JobOpening, 0, 8)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

func (r *Repository) ListOpenJobs(ctx context.Context) ([]model.JobOpening, error) {
	q := `SELECT ` + jobColumns + ` FROM job_openings WHERE status = 'open' ORDER BY created_at DESC`
	return r.queryJobs(ctx, q)
}

func (r *Repository) ListJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]model.JobOpening, error) {
	q := `SELECT ` + jobColumns + ` FROM job_openings WHERE company_id = $1 ORDER BY created_at DESC`
	return r.queryJobs(ctx, q, companyID)
}

// GetJobsByIDs returns the jobs keyed by id; unknown ids are skipped.
func (r *Repository) GetJobsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.JobOpening, error) {
	out := make(map[uuid.UUID]*model.JobOpening, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT ` + jobColumns + ` FROM job_openings WHERE job_id = ANY($1)`
	jobs, err := r.queryJobs(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		out[jobs[i].JobID] = &jobs[i]
	}
	return out, nil
}
