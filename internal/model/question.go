package model

import (
	"time"

	"github.com/google/uuid"
)

// Question is a multiple-choice question including its answer key.
// It never leaves the server; clients receive PublicQuestion.
type Question struct {
	ID            uuid.UUID
	QuestionText  string
	Options       []string
	CorrectAnswer int
	CreatedAt     time.Time
}

// PublicQuestion is the question shape sent to exam takers.
type PublicQuestion struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	Options      []string  `json:"options"`
}

// Public drops the correct answer.
func (q *Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, QuestionText: q.QuestionText, Options: q.Options}
}

// AnswerKey maps question id (canonical string form) to the correct option index.
type AnswerKey map[string]int

// QuestionsResponse is the body of GET /api/exam/questions.
type QuestionsResponse struct {
	Questions []PublicQuestion `json:"questions"`
}
