// Package memstore provides in-memory implementations of the repositories,
// used by service and router tests in place of PostgreSQL.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stemsi/exam-platform/internal/repository"
)

// Users is an in-memory user table with a unique email index.
type Users struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]model.User
	email map[string]uuid.UUID
}

func NewUsers() *Users {
	return &Users{byID: map[uuid.UUID]model.User{}, email: map[string]uuid.UUID{}}
}

func (s *Users) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.email[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *Users) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.email[email]
	return ok, nil
}

func (s *Users) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.email[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	s.byID[u.ID] = *u
	s.email[u.Email] = u.ID
	return nil
}

// Questions is an in-memory question bank kept in insertion order.
type Questions struct {
	mu        sync.Mutex
	questions []model.Question
	reads     int
}

func NewQuestions(qs ...model.Question) *Questions {
	return &Questions{questions: qs}
}

func (s *Questions) Add(q model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, q)
}

// Reads counts ListPublic and AnswerKey calls.
func (s *Questions) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *Questions) ListPublic(_ context.Context, limit int) ([]model.PublicQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	out := make([]model.PublicQuestion, 0, min(limit, len(s.questions)))
	for _, q := range s.questions {
		if len(out) == limit {
			break
		}
		out = append(out, q.Public())
	}
	return out, nil
}

func (s *Questions) AnswerKey(_ context.Context) (model.AnswerKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	key := make(model.AnswerKey, len(s.questions))
	for _, q := range s.questions {
		key[q.ID.String()] = q.CorrectAnswer
	}
	return key, nil
}

// Attempts is an in-memory exam_attempts table.
type Attempts struct {
	mu       sync.Mutex
	attempts []model.ExamAttempt
}

func NewAttempts() *Attempts {
	return &Attempts{}
}

func (s *Attempts) Create(_ context.Context, a *model.ExamAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.New()
	a.CompletedAt = time.Now()
	s.attempts = append(s.attempts, *a)
	return nil
}

func (s *Attempts) GetByIDForUser(_ context.Context, id, userID uuid.UUID) (*model.ExamAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attempts {
		if a.ID == id && a.UserID == userID {
			return &a, nil
		}
	}
	return nil, repository.ErrAttemptNotFound
}

func (s *Attempts) ListByUser(_ context.Context, userID uuid.UUID) ([]model.ExamAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ExamAttempt
	for _, a := range slices.Backward(s.attempts) {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Len reports the number of stored attempts.
func (s *Attempts) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}
