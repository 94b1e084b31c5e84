package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

type answerKey struct {
	quizID        uuid.UUID
	questionID    uuid.UUID
	participantID uuid.UUID
}

// AnswerLedger is an in-memory implementation of session.AnswerLedger.
type AnswerLedger struct {
	mu      sync.RWMutex
	answers map[answerKey]domain.Answer
}

func NewAnswerLedger() *AnswerLedger {
	return &AnswerLedger{answers: make(map[answerKey]domain.Answer)}
}

func (l *AnswerLedger) Get(_ context.Context, quizID, questionID, participantID uuid.UUID) (*domain.Answer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	answer, ok := l.answers[answerKey{quizID, questionID, participantID}]
	if !ok {
		return nil, nil
	}
	return &answer, nil
}

func (l *AnswerLedger) Swap(_ context.Context, answer domain.Answer) (*domain.Answer, error) {
	key := answerKey{answer.QuizID, answer.QuestionID, answer.ParticipantID}

	l.mu.Lock()
	defer l.mu.Unlock()
	prev, ok := l.answers[key]
	l.answers[key] = answer
	if !ok {
		return nil, nil
	}
	return &prev, nil
}

func (l *AnswerLedger) Remove(_ context.Context, quizID, questionID, participantID uuid.UUID) error {
	l.mu.Lock()
	delete(l.answers, answerKey{quizID, questionID, participantID})
	l.mu.Unlock()
	return nil
}

func (l *AnswerLedger) CountForQuestion(_ context.Context, quizID, questionID uuid.UUID) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := 0
	for key := range l.answers {
		if key.quizID == quizID && key.questionID == questionID {
			count++
		}
	}
	return count, nil
}

// ListByQuiz returns answers ordered by creation time.
func (l *AnswerLedger) ListByQuiz(_ context.Context, quizID uuid.UUID) ([]domain.Answer, error) {
	l.mu.RLock()
	out := make([]domain.Answer, 0)
	for key, ans := range l.answers {
		if key.quizID == quizID {
			out = append(out, ans)
		}
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (l *AnswerLedger) DeleteByQuiz(_ context.Context, quizID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.answers {
		if key.quizID == quizID {
			delete(l.answers, key)
		}
	}
	return nil
}
