package model

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusApplied       ApplicationStatus = "applied"
	ApplicationStatusInProgress    ApplicationStatus = "in-progress"
	ApplicationStatusSelected      ApplicationStatus = "selected"
	ApplicationStatusFinalSelected ApplicationStatus = "final-selected"
	ApplicationStatusRejected      ApplicationStatus = "rejected"
)

var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusApplied,
	ApplicationStatusInProgress,
	ApplicationStatusSelected,
	ApplicationStatusFinalSelected,
	ApplicationStatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type RoundOutcome string

const (
	RoundOutcomeSuccess RoundOutcome = "success"
	RoundOutcomeFailure RoundOutcome = "failure"
)

// RoundResult is one entry of an application's history.
type RoundResult struct {
	RoundNumber int          `json:"roundNumber"`
	InterviewID *uuid.UUID   `json:"interviewId"`
	Result      RoundOutcome `json:"result"`
	Feedback    string       `json:"feedback"`
}

type Application struct {
	ApplicationID uuid.UUID         `json:"id" db:"application_id"`
	JobID         uuid.UUID         `json:"jobId" db:"job_id"`
	CandidateID   uuid.UUID         `json:"candidateId" db:"candidate_id"`
	ResumeText    string            `json:"resumeText" db:"resume_text"`
	CurrentRound  int               `json:"currentRound" db:"current_round"`
	Status        ApplicationStatus `json:"status" db:"status"`
	History       []RoundResult     `json:"history" db:"history"`
	Version       int               `json:"version" db:"version"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time         `json:"updatedAt" db:"updated_at"`
}

// ApplicationDetail is an application with its job and candidate populated.
type ApplicationDetail struct {
	Application
	Job       *JobOpening `json:"job,omitempty"`
	Candidate *UserRes    `json:"candidate,omitempty"`
}

type CreateApplicationReq struct {
	JobID uuid.UUID `json:"jobId" binding:"required"`
}

type UpdateApplicationStatusReq struct {
	Status ApplicationStatus `json:"status" binding:"required"`
}

// RoundResultReq keeps result as a plain string so an unknown value reaches
// the state machine and is rejected there with a precise error.
type RoundResultReq struct {
	RoundNumber int        `json:"roundNumber"`
	InterviewID *uuid.UUID `json:"interviewId"`
	Result      string     `json:"result"`
	Feedback    string     `json:"feedback"`
}

type StatusCounts struct {
	Applied       int `json:"applied"`
	InProgress    int `json:"inProgress"`
	Selected      int `json:"selected"`
	FinalSelected int `json:"finalSelected"`
	Rejected      int `json:"rejected"`
}

type CompanyDashboard struct {
	TotalJobs          int                 `json:"totalJobs"`
	TotalApplications  int                 `json:"totalApplications"`
	Stats              StatusCounts        `json:"stats"`
	Jobs               []JobOpening        `json:"jobs"`
	RecentApplications []ApplicationDetail `json:"recentApplications"`
}
