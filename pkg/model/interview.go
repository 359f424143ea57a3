package model

import (
	"time"

	"github.com/google/uuid"
)

type EntryType string

const (
	EntryTypeQuestion EntryType = "question"
	EntryTypeAnswer   EntryType = "answer"
)

// ChatEntry is one line of an interview transcript.
type ChatEntry struct {
	Type      EntryType `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type InterviewType string

const (
	InterviewTypePractice InterviewType = "practice"
	InterviewTypeCompany  InterviewType = "company"
)

type InterviewResult string

const (
	InterviewResultSuccess InterviewResult = "success"
	InterviewResultFailure InterviewResult = "failure"
)

// Interview is written once when a session concludes and never updated.
type Interview struct {
	InterviewID   uuid.UUID       `json:"id" db:"interview_id"`
	UserID        uuid.UUID       `json:"user" db:"user_id"`
	ChatHistory   []ChatEntry     `json:"chatHistory" db:"chat_history"`
	FinalFeedback string          `json:"finalFeedback" db:"final_feedback"`
	Result        InterviewResult `json:"result" db:"result"`
	Feedbacks     []string        `json:"feedbacks" db:"feedbacks"`
	Type          InterviewType   `json:"type" db:"type"`
	Difficulty    string          `json:"difficulty" db:"difficulty"`
	ResumeText    string          `json:"resumeText" db:"resume_text"`
	RoleSummary   string          `json:"roleSummary" db:"role_summary"`
	RoundType     string          `json:"roundType" db:"round_type"`
	CustomTopic   string          `json:"customTopic" db:"custom_topic"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// Exchange is a question/answer pair as sent by the client while the
// session is running.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type StartInterviewReq struct {
	Role       string `json:"role" binding:"required"`
	Resume     string `json:"resume"`
	RoundType  string `json:"roundType"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type RespondInterviewReq struct {
	ChatHistory []Exchange `json:"chatHistory"`
	Answer      string     `json:"answer" binding:"required"`
	Resume      string     `json:"resume"`
	Role        string     `json:"role"`
	RoundType   string     `json:"roundType"`
	Topic       string     `json:"topic"`
	Difficulty  string     `json:"difficulty"`
}

type ConcludeInterviewReq struct {
	History         []ChatEntry   `json:"history" binding:"required,min=1"`
	ResumeText      string        `json:"resumeText"`
	RoleSummary     string        `json:"roleSummary"`
	RoundType       string        `json:"roundType"`
	CustomTopic     string        `json:"customTopic"`
	Difficulty      string        `json:"difficulty"`
	TypeOfInterview InterviewType `json:"typeOfInterview" binding:"omitempty,oneof=practice company"`
}

type SummarizeRoleReq struct {
	Prompt string `json:"prompt"`
	URL    string `json:"url" binding:"omitempty,url"`
}

type FormatResumeReq struct {
	ResumeText string `json:"resumeText" binding:"required"`
}
