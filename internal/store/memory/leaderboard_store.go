package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// LeaderboardStore keeps final standings in process.
type LeaderboardStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]domain.LeaderboardEntry
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{entries: make(map[uuid.UUID][]domain.LeaderboardEntry)}
}

func (s *LeaderboardStore) Store(_ context.Context, quizID uuid.UUID, entries []domain.LeaderboardEntry) error {
	s.mu.Lock()
	s.entries[quizID] = append([]domain.LeaderboardEntry(nil), entries...)
	s.mu.Unlock()
	return nil
}

func (s *LeaderboardStore) Load(_ context.Context, quizID uuid.UUID) ([]domain.LeaderboardEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.entries[quizID]
	if !ok {
		return nil, false, nil
	}
	return append([]domain.LeaderboardEntry(nil), entries...), true, nil
}

func (s *LeaderboardStore) Invalidate(_ context.Context, quizID uuid.UUID) error {
	s.mu.Lock()
	delete(s.entries, quizID)
	s.mu.Unlock()
	return nil
}
