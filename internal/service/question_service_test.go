package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-platform/internal/cache"
	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stemsi/exam-platform/internal/repository/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	questions []model.PublicQuestion
	key       model.AnswerKey
	readErr   error
}

func (c *fakeCache) GetQuestions(context.Context) ([]model.PublicQuestion, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	if c.questions == nil {
		return nil, cache.ErrMiss
	}
	return append([]model.PublicQuestion(nil), c.questions...), nil
}

func (c *fakeCache) SetQuestions(_ context.Context, qs []model.PublicQuestion) error {
	c.questions = qs
	return nil
}

func (c *fakeCache) GetAnswerKey(context.Context) (model.AnswerKey, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	if c.key == nil {
		return nil, cache.ErrMiss
	}
	return c.key, nil
}

func (c *fakeCache) SetAnswerKey(_ context.Context, key model.AnswerKey) error {
	c.key = key
	return nil
}

func seedQuestions(n int) *memstore.Questions {
	store := memstore.NewQuestions()
	for i := range n {
		store.Add(model.Question{
			ID:            uuid.New(),
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
		})
	}
	return store
}

func TestListExamQuestionsRespectsLimit(t *testing.T) {
	svc := NewQuestionService(seedQuestions(25), nil, 10, zerolog.Nop())

	questions, err := svc.ListExamQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 10)
}

func TestListExamQuestionsFewerThanLimit(t *testing.T) {
	svc := NewQuestionService(seedQuestions(3), nil, 10, zerolog.Nop())

	questions, err := svc.ListExamQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestListExamQuestionsOmitsAnswerKey(t *testing.T) {
	svc := NewQuestionService(seedQuestions(5), nil, 10, zerolog.Nop())

	questions, err := svc.ListExamQuestions(context.Background())
	require.NoError(t, err)

	raw, err := json.Marshal(model.QuestionsResponse{Questions: questions})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct")
	assert.Contains(t, string(raw), "question_text")
}

func TestListExamQuestionsShufflesPerCall(t *testing.T) {
	svc := NewQuestionService(seedQuestions(10), nil, 10, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.ListExamQuestions(ctx)
	require.NoError(t, err)

	differs := false
	for range 20 {
		next, err := svc.ListExamQuestions(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, first, next)
		if !assert.ObjectsAreEqual(first, next) {
			differs = true
		}
	}
	assert.True(t, differs, "question order never changed across calls")
}

func TestListExamQuestionsUsesCache(t *testing.T) {
	store := seedQuestions(4)
	c := &fakeCache{}
	svc := NewQuestionService(store, c, 10, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.ListExamQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Reads())
	assert.Len(t, c.questions, 4)

	_, err = svc.ListExamQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Reads(), "second call should be served from cache")
}

func TestListExamQuestionsCacheFailureFallsThrough(t *testing.T) {
	store := seedQuestions(4)
	svc := NewQuestionService(store, &fakeCache{readErr: errors.New("redis down")}, 10, zerolog.Nop())

	questions, err := svc.ListExamQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 4)
	assert.Equal(t, 1, store.Reads())
}

func TestAnswerKeyReadThrough(t *testing.T) {
	store := seedQuestions(3)
	c := &fakeCache{}
	svc := NewQuestionService(store, c, 10, zerolog.Nop())
	ctx := context.Background()

	key, err := svc.AnswerKey(ctx)
	require.NoError(t, err)
	assert.Len(t, key, 3)
	assert.Equal(t, key, c.key)

	_, err = svc.AnswerKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Reads())
}

func TestPrewarm(t *testing.T) {
	store := seedQuestions(12)
	c := &fakeCache{}
	svc := NewQuestionService(store, c, 10, zerolog.Nop())

	require.NoError(t, svc.Prewarm(context.Background()))
	assert.Len(t, c.questions, 10)
	assert.Len(t, c.key, 12)

	assert.NoError(t, NewQuestionService(store, nil, 10, zerolog.Nop()).Prewarm(context.Background()))
}
