package session

import (
	"time"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// Transition event names, also used as notification event names.
const (
	EventStarted  = "quiz_started"
	EventAdvanced = "question_started"
	EventFinished = "quiz_finished"
	EventReset    = "quiz_reset"
)

// start moves a waiting session onto its first question.
func start(s *domain.QuizSession, now time.Time) error {
	if s.Phase != domain.PhaseWaiting {
		return &domain.TransitionError{Op: "start", Phase: s.Phase}
	}
	if len(s.QuestionIDs) == 0 {
		return &domain.TransitionError{Op: "start empty", Phase: s.Phase}
	}

	s.Phase = domain.PhaseActive
	s.CurrentQuestionIndex = 0
	s.QuestionStartedAt = &now
	s.StartedAt = &now
	s.EndedAt = nil
	return nil
}

// advance moves to the next question, finishing the session past the last one.
// It returns the event that happened.
func advance(s *domain.QuizSession, now time.Time) (string, error) {
	if s.Phase != domain.PhaseActive {
		return "", &domain.TransitionError{Op: "advance", Phase: s.Phase}
	}

	next := s.CurrentQuestionIndex + 1
	if next >= len(s.QuestionIDs) {
		s.Phase = domain.PhaseFinished
		s.CurrentQuestionIndex = len(s.QuestionIDs)
		s.QuestionStartedAt = nil
		s.EndedAt = &now
		return EventFinished, nil
	}

	s.CurrentQuestionIndex = next
	s.QuestionStartedAt = &now
	return EventAdvanced, nil
}

// reset returns any session to waiting, keeping questions and participants.
func reset(s *domain.QuizSession) {
	s.Phase = domain.PhaseWaiting
	s.CurrentQuestionIndex = 0
	s.QuestionStartedAt = nil
	s.StartedAt = nil
	s.EndedAt = nil
}
