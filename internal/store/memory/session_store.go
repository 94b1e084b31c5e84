package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// SessionStore is an in-memory implementation of session.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.QuizSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*domain.QuizSession),
	}
}

func (s *SessionStore) Get(_ context.Context, quizID uuid.UUID) (*domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[quizID]
	if !ok {
		return nil, domain.ErrQuizNotFound
	}
	return sess.Clone(), nil
}

func (s *SessionStore) Create(_ context.Context, sess *domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return domain.ErrVersionConflict
	}
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

func (s *SessionStore) CompareAndSwap(_ context.Context, sess *domain.QuizSession, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[sess.ID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	s.sessions[sess.ID] = sess.Clone()
	return nil
}
