package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exam-platform/internal/config"
	"github.com/stemsi/exam-platform/internal/model"
)

// ErrMiss is returned when the requested entry is not cached.
var ErrMiss = errors.New("cache miss")

// QuestionCache stores the public question bank and the answer key in Redis.
type QuestionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuestionCache creates a QuestionCache whose entries expire after ttl.
func NewQuestionCache(rdb *redis.Client, ttl time.Duration) *QuestionCache {
	return &QuestionCache{rdb: rdb, ttl: ttl}
}

// GetQuestions returns the cached question bank.
func (c *QuestionCache) GetQuestions(ctx context.Context) ([]model.PublicQuestion, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.QuestionBankKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("get questions: %w", err)
	}

	var questions []model.PublicQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}

// SetQuestions caches the question bank.
func (c *QuestionCache) SetQuestions(ctx context.Context, questions []model.PublicQuestion) error {
	raw, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	return c.rdb.Set(ctx, config.CacheKey.QuestionBankKey(), raw, c.ttl).Err()
}

// GetAnswerKey returns the cached answer key.
func (c *QuestionCache) GetAnswerKey(ctx context.Context) (model.AnswerKey, error) {
	raw, err := c.rdb.HGetAll(ctx, config.CacheKey.AnswerKeyKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("get answer key: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrMiss
	}

	key := make(model.AnswerKey, len(raw))
	for id, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("decode answer for %s: %w", id, err)
		}
		key[id] = n
	}
	return key, nil
}

// SetAnswerKey replaces the cached answer key atomically. An empty key is
// not stored.
func (c *QuestionCache) SetAnswerKey(ctx context.Context, key model.AnswerKey) error {
	if len(key) == 0 {
		return nil
	}

	fields := make(map[string]any, len(key))
	for id, correct := range key {
		fields[id] = correct
	}

	hashKey := config.CacheKey.AnswerKeyKey()
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, hashKey)
		pipe.HSet(ctx, hashKey, fields)
		pipe.Expire(ctx, hashKey, c.ttl)
		return nil
	})
	return err
}
