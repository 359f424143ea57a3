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

const interviewColumns = `interview_id, user_id, chat_history, final_feedback, result, feedbacks,
	type, difficulty, resume_text, role_summary, round_type, custom_topic, created_at`

func (r *Repository) CreateInterview(ctx context.Context, iv *model.Interview) error {
	chat, err := json.Marshal(iv.ChatHistory)
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}
	resume, err := r.seal(iv.ResumeText)
	if err != nil {
		return err
	}
	if iv.Feedbacks == nil {
		iv.Feedbacks = []string{}
	}
	const q = `
INSERT INTO interviews (
	interview_id, user_id, chat_history, final_feedback, result, feedbacks,
	type, difficulty, resume_text, role_summary, round_type, custom_topic, created_at
) VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`
	_, err = r.db.Exec(ctx, q,
		iv.InterviewID, iv.UserID, chat, iv.FinalFeedback, iv.Result, iv.Feedbacks,
		iv.Type, iv.Difficulty, resume, iv.RoleSummary, iv.RoundType, iv.CustomTopic, iv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

func (r *Repository) scanInterview(row pgx.Row) (*model.Interview, error) {
	var iv model.Interview
	var chat []byte
	err := row.Scan(
		&iv.InterviewID, &iv.UserID, &chat, &iv.FinalFeedback, &iv.Result, &iv.Feedbacks,
		&iv.Type, &iv.Difficulty, &iv.ResumeText, &iv.RoleSummary, &iv.RoundType, &iv.CustomTopic, &iv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan interview: %w", err)
	}
	iv.ChatHistory = []model.ChatEntry{}
	if len(chat) > 0 {
		if err := json.Unmarshal(chat, &iv.ChatHistory); err != nil {
			return nil, fmt.Errorf("unmarshal chat history: %w", err)
		}
	}
	if iv.ResumeText, err = r.open(iv.ResumeText); err != nil {
		return nil, err
	}
	return &iv, nil
}

// GetInterviewByID only finds interviews owned by userID.
func (r *Repository) GetInterviewByID(ctx context.Context, interviewID, userID uuid.UUID) (*model.Interview, error) {
	q := `SELECT ` + interviewColumns + ` FROM interviews WHERE interview_id = $1 AND user_id = $2`
	return r.scanInterview(r.db.QueryRow(ctx, q, interviewID, userID))
}

func (r *Repository) ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]model.Interview, error) {
	q := `SELECT ` + interviewColumns + ` FROM interviews WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	out := make([]model.Interview, 0, 8)
	for rows.Next() {
		iv, err := r.scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}
