package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stemsi/exam-platform/internal/repository"
)

var ErrAttemptNotFound = errors.New("exam attempt not found")

// AnswerKeySource supplies the authoritative answer key.
type AnswerKeySource interface {
	AnswerKey(ctx context.Context) (model.AnswerKey, error)
}

// ScoringService scores submissions and serves stored attempts.
type ScoringService struct {
	attempts ExamAttemptRepository
	keys     AnswerKeySource
	log      zerolog.Logger
}

// NewScoringService creates a new ScoringService.
func NewScoringService(attempts ExamAttemptRepository, keys AnswerKeySource, log zerolog.Logger) *ScoringService {
	return &ScoringService{
		attempts: attempts,
		keys:     keys,
		log:      log.With().Str("component", "scoring_service").Logger(),
	}
}

// Submit scores answers against the answer key and persists exactly one
// attempt. timeTaken is client-reported and stored as given. Submitting
// twice creates two attempts.
func (s *ScoringService) Submit(ctx context.Context, userID uuid.UUID, answers map[string]int, timeTaken int) (*model.SubmitResult, error) {
	if answers == nil {
		answers = map[string]int{}
	}

	key, err := s.keys.AnswerKey(ctx)
	if err != nil {
		return nil, err
	}

	score, total := Score(key, answers)

	attempt := &model.ExamAttempt{
		UserID:         userID,
		Score:          score,
		TotalQuestions: total,
		TimeTaken:      timeTaken,
		Answers:        answers,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("attempt_id", attempt.ID.String()).
		Int("score", score).
		Int("total", total).
		Msg("Exam submitted")

	summary := Summarize(attempt)
	return &model.SubmitResult{
		Score:          summary.Score,
		TotalQuestions: summary.TotalQuestions,
		Percentage:     summary.Percentage,
		TimeTaken:      summary.TimeTaken,
		AttemptID:      summary.AttemptID,
		Grade:          summary.Grade,
		Passed:         summary.Passed,
	}, nil
}

// GetAttempt returns an attempt owned by userID. Malformed ids, missing
// attempts and attempts owned by someone else all yield ErrAttemptNotFound.
func (s *ScoringService) GetAttempt(ctx context.Context, userID uuid.UUID, attemptID string) (*model.AttemptSummary, error) {
	id, err := uuid.Parse(attemptID)
	if err != nil {
		return nil, ErrAttemptNotFound
	}

	attempt, err := s.attempts.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	summary := Summarize(attempt)
	return &summary, nil
}

// ListAttempts returns the user's attempts, newest first.
func (s *ScoringService) ListAttempts(ctx context.Context, userID uuid.UUID) ([]model.AttemptSummary, error) {
	attempts, err := s.attempts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	out := make([]model.AttemptSummary, 0, len(attempts))
	for i := range attempts {
		out = append(out, Summarize(&attempts[i]))
	}
	return out, nil
}
