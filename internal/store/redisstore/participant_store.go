package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// ParticipantStore keeps profiles and scores in two hashes per quiz so that
// score updates are a single HINCRBY.
type ParticipantStore struct {
	redis *redis.Client
	keys  keyspace
}

func NewParticipantStore(client *redis.Client, opts Options) *ParticipantStore {
	return &ParticipantStore{redis: client, keys: newKeyspace(opts)}
}

func (s *ParticipantStore) Upsert(ctx context.Context, p domain.Participant) error {
	profiles := s.keys.participants(p.QuizID)
	scores := s.keys.scores(p.QuizID)

	raw, err := s.redis.HGet(ctx, profiles, p.ID.String()).Bytes()
	switch {
	case err == nil:
		var existing domain.Participant
		if err := json.Unmarshal(raw, &existing); err != nil {
			return fmt.Errorf("unmarshal participant: %w", err)
		}
		existing.DisplayName = p.DisplayName
		p = existing
	case err != redis.Nil:
		return fmt.Errorf("get participant: %w", err)
	}

	p.Score = 0
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal participant: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, profiles, p.ID.String(), data)
	pipe.HSetNX(ctx, scores, p.ID.String(), 0)
	s.keys.expire(ctx, pipe, profiles, scores)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

func (s *ParticipantStore) Get(ctx context.Context, quizID, participantID uuid.UUID) (domain.Participant, error) {
	pipe := s.redis.Pipeline()
	profileCmd := pipe.HGet(ctx, s.keys.participants(quizID), participantID.String())
	scoreCmd := pipe.HGet(ctx, s.keys.scores(quizID), participantID.String())
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return domain.Participant{}, fmt.Errorf("get participant: %w", err)
	}

	raw, err := profileCmd.Bytes()
	if err == redis.Nil {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	var p domain.Participant
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Participant{}, fmt.Errorf("unmarshal participant: %w", err)
	}
	if score, err := scoreCmd.Int(); err == nil {
		p.Score = score
	}
	return p, nil
}

// List returns participants in join order.
func (s *ParticipantStore) List(ctx context.Context, quizID uuid.UUID) ([]domain.Participant, error) {
	profiles, err := s.redis.HGetAll(ctx, s.keys.participants(quizID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	scores, err := s.redis.HGetAll(ctx, s.keys.scores(quizID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	out := make([]domain.Participant, 0, len(profiles))
	for id, raw := range profiles {
		var p domain.Participant
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("unmarshal participant: %w", err)
		}
		p.Score = parseInt(scores[id])
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *ParticipantStore) IncrementScore(ctx context.Context, quizID, participantID uuid.UUID, delta int) (int, error) {
	exists, err := s.redis.HExists(ctx, s.keys.participants(quizID), participantID.String()).Result()
	if err != nil {
		return 0, fmt.Errorf("check participant: %w", err)
	}
	if !exists {
		return 0, domain.ErrParticipantNotFound
	}
	score, err := s.redis.HIncrBy(ctx, s.keys.scores(quizID), participantID.String(), int64(delta)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment score: %w", err)
	}
	return int(score), nil
}

func (s *ParticipantStore) ResetScores(ctx context.Context, quizID uuid.UUID) error {
	ids, err := s.redis.HKeys(ctx, s.keys.participants(quizID)).Result()
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}

	scores := s.keys.scores(quizID)
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, scores)
	for _, id := range ids {
		pipe.HSet(ctx, scores, id, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("reset scores: %w", err)
	}
	return nil
}
