package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// SessionStore persists one QuizSession per quiz.
type SessionStore interface {
	Get(ctx context.Context, quizID uuid.UUID) (*domain.QuizSession, error)
	Create(ctx context.Context, s *domain.QuizSession) error
	// CompareAndSwap replaces the record only if the stored version equals expectedVersion.
	CompareAndSwap(ctx context.Context, s *domain.QuizSession, expectedVersion int64) error
}

// QuestionStore is the question catalog.
type QuestionStore interface {
	// GetQuestions returns questions in the order of ids, or ErrQuestionNotFound.
	GetQuestions(ctx context.Context, ids []uuid.UUID) ([]domain.Question, error)
	SaveQuestions(ctx context.Context, questions []domain.Question) error
}

// AnswerLedger keeps one answer per (participant, quiz, question).
type AnswerLedger interface {
	// Get returns nil when the participant has not answered the question.
	Get(ctx context.Context, quizID, questionID, participantID uuid.UUID) (*domain.Answer, error)
	// Swap upserts the answer and returns the record it replaced, if any, atomically.
	Swap(ctx context.Context, answer domain.Answer) (*domain.Answer, error)
	// Remove drops one participant's answer to a question; missing answers are not an error.
	Remove(ctx context.Context, quizID, questionID, participantID uuid.UUID) error
	CountForQuestion(ctx context.Context, quizID, questionID uuid.UUID) (int, error)
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]domain.Answer, error)
	DeleteByQuiz(ctx context.Context, quizID uuid.UUID) error
}

// ParticipantStore owns score-bearing participant records.
type ParticipantStore interface {
	// Upsert creates the participant with a zero score or refreshes its display name.
	Upsert(ctx context.Context, p domain.Participant) error
	Get(ctx context.Context, quizID, participantID uuid.UUID) (domain.Participant, error)
	List(ctx context.Context, quizID uuid.UUID) ([]domain.Participant, error)
	// IncrementScore atomically adds delta and returns the new score.
	IncrementScore(ctx context.Context, quizID, participantID uuid.UUID, delta int) (int, error)
	ResetScores(ctx context.Context, quizID uuid.UUID) error
}

// Locker serialises mutations of one quiz.
type Locker interface {
	Lock(ctx context.Context, quizID uuid.UUID) (func() error, error)
}

// Notifier fans out events to connected clients. Delivery is at-most-once.
type Notifier interface {
	Broadcast(ctx context.Context, channel, event string, payload any) error
}

// LeaderboardCache stores the final standings of finished quizzes. finishedAt is
// the EndedAt of the run the standings belong to.
type LeaderboardCache interface {
	Store(ctx context.Context, quizID uuid.UUID, entries []domain.LeaderboardEntry, finishedAt time.Time) error
	// Load reports ok=false when nothing is stored for the run that ended at finishedAt.
	Load(ctx context.Context, quizID uuid.UUID, finishedAt time.Time) (entries []domain.LeaderboardEntry, ok bool, err error)
	Invalidate(ctx context.Context, quizID uuid.UUID) error
}

// Stores groups the repositories the engine reads and writes.
type Stores struct {
	Sessions     SessionStore
	Questions    QuestionStore
	Answers      AnswerLedger
	Participants ParticipantStore
}

// ParticipantChannel is the participant-facing channel of a quiz.
func ParticipantChannel(quizID uuid.UUID) string {
	return fmt.Sprintf("quiz:%s:participants", quizID.String())
}

// AdminChannel is the admin-facing channel of a quiz.
func AdminChannel(quizID uuid.UUID) string {
	return fmt.Sprintf("quiz:%s:admin", quizID.String())
}

// AnswerID is the stable identity of the logical answer for a triple.
func AnswerID(quizID, questionID, participantID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(quizID, []byte(questionID.String()+":"+participantID.String()))
}
