package session

import (
	"time"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// Remaining returns the whole seconds left on the active question.
// It is read-only; ok is false when the session has no active question.
func Remaining(s *domain.QuizSession, q domain.Question, now time.Time) (int, bool) {
	if s == nil || s.Phase != domain.PhaseActive || s.QuestionStartedAt == nil {
		return 0, false
	}

	elapsed := int(now.Sub(*s.QuestionStartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := q.TimeLimitSeconds - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}
