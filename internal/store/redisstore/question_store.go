package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// QuestionStore keeps the question catalog in Redis. Questions carry no TTL.
type QuestionStore struct {
	redis *redis.Client
	keys  keyspace
}

func NewQuestionStore(client *redis.Client, opts Options) *QuestionStore {
	return &QuestionStore{redis: client, keys: newKeyspace(opts)}
}

func (s *QuestionStore) GetQuestions(ctx context.Context, ids []uuid.UUID) ([]domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.keys.question(id)
	}

	values, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}

	out := make([]domain.Question, len(ids))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, domain.ErrQuestionNotFound
		}
		if err := json.Unmarshal([]byte(raw), &out[i]); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
	}
	return out, nil
}

func (s *QuestionStore) SaveQuestions(ctx context.Context, questions []domain.Question) error {
	pipe := s.redis.TxPipeline()
	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question: %w", err)
		}
		pipe.Set(ctx, s.keys.question(q.ID), data, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	return nil
}
