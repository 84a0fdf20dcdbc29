package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/exam-platform/internal/model"
)

// UserRepository is the user storage used by AuthService.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *model.User) error
}

// QuestionRepository is the read-only question bank.
type QuestionRepository interface {
	ListPublic(ctx context.Context, limit int) ([]model.PublicQuestion, error)
	AnswerKey(ctx context.Context) (model.AnswerKey, error)
}

// ExamAttemptRepository stores submitted attempts.
type ExamAttemptRepository interface {
	Create(ctx context.Context, a *model.ExamAttempt) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.ExamAttempt, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ExamAttempt, error)
}

// QuestionCache is an optional read-through cache for the question bank.
type QuestionCache interface {
	GetQuestions(ctx context.Context) ([]model.PublicQuestion, error)
	SetQuestions(ctx context.Context, questions []model.PublicQuestion) error
	GetAnswerKey(ctx context.Context) (model.AnswerKey, error)
	SetAnswerKey(ctx context.Context, key model.AnswerKey) error
}
