package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// SessionStore keeps each QuizSession as a JSON document guarded by WATCH.
type SessionStore struct {
	redis *redis.Client
	keys  keyspace
}

func NewSessionStore(client *redis.Client, opts Options) *SessionStore {
	return &SessionStore{redis: client, keys: newKeyspace(opts)}
}

func (s *SessionStore) Get(ctx context.Context, quizID uuid.UUID) (*domain.QuizSession, error) {
	data, err := s.redis.Get(ctx, s.keys.session(quizID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess domain.QuizSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Create(ctx context.Context, sess *domain.QuizSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	created, err := s.redis.SetNX(ctx, s.keys.session(sess.ID), data, s.keys.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !created {
		return domain.ErrVersionConflict
	}
	return nil
}

// CompareAndSwap writes sess only if the stored version still equals expectedVersion.
func (s *SessionStore) CompareAndSwap(ctx context.Context, sess *domain.QuizSession, expectedVersion int64) error {
	key := s.keys.session(sess.ID)
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	err = s.redis.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return domain.ErrQuizNotFound
		}
		if err != nil {
			return err
		}
		var current struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if current.Version != expectedVersion {
			return domain.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.keys.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return domain.ErrVersionConflict
	case errors.Is(err, domain.ErrVersionConflict), errors.Is(err, domain.ErrNotFound):
		return err
	default:
		return fmt.Errorf("swap session: %w", err)
	}
}
