package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exam-platform/internal/config"
	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*QuestionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewQuestionCache(rdb, time.Minute), mr
}

func TestQuestionsRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, err := c.GetQuestions(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	questions := []model.PublicQuestion{
		{ID: uuid.New(), QuestionText: "2+2?", Options: []string{"3", "4"}},
	}
	require.NoError(t, c.SetQuestions(ctx, questions))

	got, err := c.GetQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, questions, got)
}

func TestQuestionsExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetQuestions(ctx, []model.PublicQuestion{{ID: uuid.New()}}))
	mr.FastForward(2 * time.Minute)

	_, err := c.GetQuestions(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestAnswerKeyRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.GetAnswerKey(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.SetAnswerKey(ctx, model.AnswerKey{"q1": 0, "q2": 2}))

	got, err := c.GetAnswerKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AnswerKey{"q1": 0, "q2": 2}, got)
	assert.True(t, mr.TTL(config.CacheKey.AnswerKeyKey()) > 0)
}

func TestSetAnswerKeyReplacesStaleEntries(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetAnswerKey(ctx, model.AnswerKey{"old": 1}))
	require.NoError(t, c.SetAnswerKey(ctx, model.AnswerKey{"new": 3}))

	got, err := c.GetAnswerKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AnswerKey{"new": 3}, got)
}

func TestSetAnswerKeyEmptyIsNoop(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetAnswerKey(ctx, model.AnswerKey{}))
	_, err := c.GetAnswerKey(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}
