package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// LeaderboardStore caches the final standings of a quiz as JSON.
type LeaderboardStore struct {
	redis *redis.Client
	keys  keyspace
}

func NewLeaderboardStore(client *redis.Client, opts Options) *LeaderboardStore {
	return &LeaderboardStore{redis: client, keys: newKeyspace(opts)}
}

func (s *LeaderboardStore) Store(ctx context.Context, quizID uuid.UUID, entries []domain.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	if err := s.redis.Set(ctx, s.keys.leaderboard(quizID), data, s.keys.ttl).Err(); err != nil {
		return fmt.Errorf("store leaderboard: %w", err)
	}
	return nil
}

// Load returns the cached standings; ok is false on a miss.
func (s *LeaderboardStore) Load(ctx context.Context, quizID uuid.UUID) ([]domain.LeaderboardEntry, bool, error) {
	data, err := s.redis.Get(ctx, s.keys.leaderboard(quizID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load leaderboard: %w", err)
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("unmarshal leaderboard: %w", err)
	}
	return entries, true, nil
}

func (s *LeaderboardStore) Invalidate(ctx context.Context, quizID uuid.UUID) error {
	return s.redis.Del(ctx, s.keys.leaderboard(quizID)).Err()
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
