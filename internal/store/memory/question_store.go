package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// QuestionStore is an in-memory question catalog.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[uuid.UUID]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[uuid.UUID]domain.Question)}
}

func (s *QuestionStore) GetQuestions(_ context.Context, ids []uuid.UUID) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := s.questions[id]
		if !ok {
			return nil, domain.ErrQuestionNotFound
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *QuestionStore) SaveQuestions(_ context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		s.questions[q.ID] = q
	}
	return nil
}
