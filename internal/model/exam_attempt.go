package model

import (
	"time"

	"github.com/google/uuid"
)

// Grade is the letter grade derived from an attempt's percentage.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeF     Grade = "F"
)

// PassPercentage is the lowest percentage that counts as a pass.
const PassPercentage = 70

// ExamAttempt is one submitted exam. Rows are written once and never updated.
type ExamAttempt struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Score          int
	TotalQuestions int
	TimeTaken      int
	Answers        map[string]int
	CompletedAt    time.Time
}

// SubmitRequest is the payload for POST /api/exam/submit.
// Answers maps question id to the selected option index; unanswered
// questions are simply absent. TimeTaken is seconds, capped at one day.
type SubmitRequest struct {
	Answers   map[string]int `json:"answers"`
	TimeTaken int            `json:"timeTaken" binding:"min=0,max=86400"`
}

// SubmitResult is returned right after scoring.
type SubmitResult struct {
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	TimeTaken      int       `json:"timeTaken"`
	AttemptID      uuid.UUID `json:"attemptId"`
	Grade          Grade     `json:"grade"`
	Passed         bool      `json:"passed"`
}

// AttemptSummary is the stored view of an attempt, without the raw answers.
type AttemptSummary struct {
	AttemptID      uuid.UUID `json:"attemptId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	TimeTaken      int       `json:"timeTaken"`
	CompletedAt    time.Time `json:"completedAt"`
	Grade          Grade     `json:"grade"`
	Passed         bool      `json:"passed"`
}
