package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/stemsi/exam-platform/internal/cache"
	"github.com/stemsi/exam-platform/internal/model"
)

// QuestionService serves exam questions and the authoritative answer key.
type QuestionService struct {
	repo  QuestionRepository
	cache QuestionCache // nil when caching is disabled
	limit int
	log   zerolog.Logger
}

// NewQuestionService creates a new QuestionService. cache may be nil.
func NewQuestionService(repo QuestionRepository, cache QuestionCache, limit int, log zerolog.Logger) *QuestionService {
	if limit <= 0 {
		limit = 10
	}
	return &QuestionService{
		repo:  repo,
		cache: cache,
		limit: limit,
		log:   log.With().Str("component", "question_service").Logger(),
	}
}

// ListExamQuestions returns up to the configured number of questions in a
// fresh random order on every call. The answer key is never included.
func (s *QuestionService) ListExamQuestions(ctx context.Context) ([]model.PublicQuestion, error) {
	bank, err := s.bank(ctx)
	if err != nil {
		return nil, err
	}

	if len(bank) > s.limit {
		bank = bank[:s.limit]
	}
	questions := make([]model.PublicQuestion, len(bank))
	copy(questions, bank)

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	return questions, nil
}

// AnswerKey returns the correct option for every question in the bank.
func (s *QuestionService) AnswerKey(ctx context.Context) (model.AnswerKey, error) {
	if s.cache != nil {
		key, err := s.cache.GetAnswerKey(ctx)
		if err == nil {
			return key, nil
		}
		s.logCacheError(err, "answer key cache read failed")
	}

	key, err := s.repo.AnswerKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetAnswerKey(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("answer key cache write failed")
		}
	}
	return key, nil
}

// Prewarm loads the question bank and answer key into the cache.
func (s *QuestionService) Prewarm(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	bank, err := s.repo.ListPublic(ctx, s.limit)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	if err := s.cache.SetQuestions(ctx, bank); err != nil {
		return fmt.Errorf("cache questions: %w", err)
	}

	key, err := s.repo.AnswerKey(ctx)
	if err != nil {
		return fmt.Errorf("load answer key: %w", err)
	}
	if err := s.cache.SetAnswerKey(ctx, key); err != nil {
		return fmt.Errorf("cache answer key: %w", err)
	}

	s.log.Info().Int("questions", len(bank)).Int("answer_key", len(key)).Msg("Question cache prewarmed")
	return nil
}

func (s *QuestionService) bank(ctx context.Context) ([]model.PublicQuestion, error) {
	if s.cache != nil {
		bank, err := s.cache.GetQuestions(ctx)
		if err == nil {
			return bank, nil
		}
		s.logCacheError(err, "question cache read failed")
	}

	bank, err := s.repo.ListPublic(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetQuestions(ctx, bank); err != nil {
			s.log.Warn().Err(err).Msg("question cache write failed")
		}
	}
	return bank, nil
}

func (s *QuestionService) logCacheError(err error, msg string) {
	if errors.Is(err, cache.ErrMiss) {
		return
	}
	s.log.Warn().Err(err).Msg(msg)
}
