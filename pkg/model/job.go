package model

import (
	"time"

	"github.com/google/uuid"
)

type RoundType string

const (
	RoundTypeTechnical  RoundType = "technical"
	RoundTypeBehavioral RoundType = "behavioral"
	RoundTypeHR         RoundType = "hr"
)

func (t RoundType) Valid() bool {
	switch t {
	case RoundTypeTechnical, RoundTypeBehavioral, RoundTypeHR:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Round is one stage of a job's interview pipeline. Round numbers are
// expected to run 1..n but are stored as given.
type Round struct {
	RoundNumber int        `json:"roundNumber" binding:"required,min=1"`
	Type        RoundType  `json:"type" binding:"required,oneof=technical behavioral hr"`
	Difficulty  Difficulty `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Topic       string     `json:"topic,omitempty"`
	Duration    int        `json:"duration,omitempty"` // minutes
	Notes       string     `json:"notes,omitempty"`
}

type JobOpening struct {
	JobID       uuid.UUID `json:"id" db:"job_id"`
	CompanyID   uuid.UUID `json:"companyId" db:"company_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Skills      []string  `json:"skills" db:"skills"`
	Rounds      []Round   `json:"rounds" db:"rounds"`
	Status      JobStatus `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateJobReq struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Skills      []string  `json:"skills"`
	Rounds      []Round   `json:"rounds" binding:"required,min=1,dive"`
	Status      JobStatus `json:"status" binding:"omitempty,oneof=open closed"`
}
