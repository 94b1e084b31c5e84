package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a phase precondition is violated.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrNotFound is the base for every unknown quiz, question or participant.
	ErrNotFound = errors.New("not found")
	// ErrStaleSubmission is returned for answers to a question that is no longer active.
	ErrStaleSubmission = errors.New("stale submission")
	// ErrVersionConflict signals a lost compare-and-swap on the session record.
	ErrVersionConflict = errors.New("session version conflict")

	ErrQuizNotFound        = fmt.Errorf("quiz %w", ErrNotFound)
	ErrQuestionNotFound    = fmt.Errorf("question %w", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)
)

// ValidationError rejects malformed input before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// TransitionError carries the rejected transition and current phase.
type TransitionError struct {
	Op    string
	Phase Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s session in phase %s", e.Op, e.Phase)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
