package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `user_id, role, email, password_hash, full_name, education, skills,
	company_name, roles_offered, company_size, industry, resume_text, created_at, updated_at`

func (r *Repository) CreateUser(ctx context.Context, u *model.User) error {
	resume, err := r.seal(u.ResumeText)
	if err != nil {
		return err
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if u.RolesOffered == nil {
		u.RolesOffered = []string{}
	}
	const q = `
INSERT INTO users (
	user_id, role, email, password_hash, full_name, education, skills,
	company_name, roles_offered, company_size, industry, resume_text
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING created_at, updated_at
`
	err = r.db.QueryRow(ctx, q,
		u.UserID, u.Role, u.Email, u.PasswordHash, u.FullName, u.Education, u.Skills,
		u.CompanyName, u.RolesOffered, u.CompanySize, u.Industry, resume,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email already exists: %w", ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.UserID, &u.Role, &u.Email, &u.PasswordHash, &u.FullName, &u.Education, &u.Skills,
		&u.CompanyName, &u.RolesOffered, &u.CompanySize, &u.Industry, &u.ResumeText, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if u.ResumeText, err = r.open(u.ResumeText); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail expects an already normalised email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, q, email))
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.scanUser(r.db.QueryRow(ctx, q, userID))
}

// GetUsersByIDs returns the users keyed by id; unknown ids are skipped.
func (r *Repository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error) {
	out := make(map[uuid.UUID]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1)`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.UserID] = u
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

func (r *Repository) UpdateResumeText(ctx context.Context, userID uuid.UUID, resume string) error {
	sealed, err := r.seal(resume)
	if err != nil {
		return err
	}
	const q = `UPDATE users SET resume_text = $1, updated_at = now() WHERE user_id = $2`
	tag, err := r.db.Exec(ctx, q, sealed, userID)
	if err != nil {
		return fmt.Errorf("update resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
