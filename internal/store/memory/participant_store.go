package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

type participantKey struct {
	quizID        uuid.UUID
	participantID uuid.UUID
}

// ParticipantStore is an in-memory implementation of session.ParticipantStore.
type ParticipantStore struct {
	mu           sync.RWMutex
	participants map[participantKey]*domain.Participant
}

func NewParticipantStore() *ParticipantStore {
	return &ParticipantStore{participants: make(map[participantKey]*domain.Participant)}
}

func (s *ParticipantStore) Upsert(_ context.Context, p domain.Participant) error {
	key := participantKey{p.QuizID, p.ID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.participants[key]; ok {
		existing.DisplayName = p.DisplayName
		return nil
	}
	p.Score = 0
	s.participants[key] = &p
	return nil
}

func (s *ParticipantStore) Get(_ context.Context, quizID, participantID uuid.UUID) (domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[participantKey{quizID, participantID}]
	if !ok {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return *p, nil
}

// List returns the quiz's participants ordered by join time.
func (s *ParticipantStore) List(_ context.Context, quizID uuid.UUID) ([]domain.Participant, error) {
	s.mu.RLock()
	out := make([]domain.Participant, 0)
	for key, p := range s.participants {
		if key.quizID == quizID {
			out = append(out, *p)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (s *ParticipantStore) IncrementScore(_ context.Context, quizID, participantID uuid.UUID, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[participantKey{quizID, participantID}]
	if !ok {
		return 0, domain.ErrParticipantNotFound
	}
	p.Score += delta
	return p.Score, nil
}

func (s *ParticipantStore) ResetScores(_ context.Context, quizID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, p := range s.participants {
		if key.quizID == quizID {
			p.Score = 0
		}
	}
	return nil
}
