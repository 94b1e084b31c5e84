package domain

import (
	"time"

	"github.com/google/uuid"
)

// Phase is the coarse lifecycle state of a quiz session.
type Phase string

// Session phases. Transitions only move forward until a reset.
const (
	PhaseWaiting  Phase = "waiting"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// NoAnswer is the selected option recorded for an empty or timed-out answer.
const NoAnswer = -1

// Question bounds.
const (
	MinOptions          = 2
	MaxOptions          = 6
	MinTimeLimitSeconds = 5
	MaxTimeLimitSeconds = 60
)

// QuizSession is the authoritative record of a running quiz.
type QuizSession struct {
	ID                   uuid.UUID   `json:"id"`
	Title                string      `json:"title"`
	Phase                Phase       `json:"phase"`
	QuestionIDs          []uuid.UUID `json:"question_ids"`
	CurrentQuestionIndex int         `json:"current_question_index"`
	QuestionStartedAt    *time.Time  `json:"question_started_at,omitempty"`
	StartedAt            *time.Time  `json:"started_at,omitempty"`
	EndedAt              *time.Time  `json:"ended_at,omitempty"`
	Participants         []uuid.UUID `json:"participants"` // join order, no duplicates
	Version              int64       `json:"version"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// CurrentQuestionID returns the active question identity, if any.
func (s *QuizSession) CurrentQuestionID() (uuid.UUID, bool) {
	if s.Phase != PhaseActive || s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.QuestionIDs) {
		return uuid.Nil, false
	}
	return s.QuestionIDs[s.CurrentQuestionIndex], true
}

// HasParticipant reports whether id already joined the session.
func (s *QuizSession) HasParticipant(id uuid.UUID) bool {
	for _, p := range s.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (s *QuizSession) Clone() *QuizSession {
	if s == nil {
		return nil
	}
	out := *s
	out.QuestionIDs = append([]uuid.UUID(nil), s.QuestionIDs...)
	out.Participants = append([]uuid.UUID(nil), s.Participants...)
	out.QuestionStartedAt = cloneTime(s.QuestionStartedAt)
	out.StartedAt = cloneTime(s.StartedAt)
	out.EndedAt = cloneTime(s.EndedAt)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Question is a multiple-choice question; immutable once referenced by a session.
type Question struct {
	ID               uuid.UUID `json:"id"`
	Text             string    `json:"text"`
	Options          []string  `json:"options"`
	CorrectOption    int       `json:"correct_option"`
	TimeLimitSeconds int       `json:"time_limit_seconds"`
}

// Validate checks option count, correct index and time limit bounds.
func (q Question) Validate() error {
	if q.Text == "" {
		return &ValidationError{Field: "text", Message: "question text is required"}
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return &ValidationError{Field: "options", Message: "a question needs between 2 and 6 options"}
	}
	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		return &ValidationError{Field: "correct_option", Message: "correct_option must index an option"}
	}
	if q.TimeLimitSeconds < MinTimeLimitSeconds || q.TimeLimitSeconds > MaxTimeLimitSeconds {
		return &ValidationError{Field: "time_limit_seconds", Message: "time_limit_seconds must be between 5 and 60"}
	}
	return nil
}

// Answer is one ledger record per (participant, quiz, question).
type Answer struct {
	ID             uuid.UUID `json:"id"`
	ParticipantID  uuid.UUID `json:"participant_id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
	Points         int       `json:"points"`
	// CreditedPoints is the most this question has added to the participant's score.
	CreditedPoints int       `json:"credited_points"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// Participant is the score-bearing identity within one quiz.
type Participant struct {
	ID          uuid.UUID `json:"id"`
	QuizID      uuid.UUID `json:"quiz_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	JoinedAt    time.Time `json:"joined_at"`
}

// LeaderboardEntry is a derived standing rebuilt from the answer ledger.
type LeaderboardEntry struct {
	ParticipantID         uuid.UUID `json:"participant_id"`
	DisplayName           string    `json:"display_name"`
	TotalScore            int       `json:"total_score"`
	CorrectAnswers        int       `json:"correct_answers"`
	TotalQuestions        int       `json:"total_questions"`
	AverageResponseTimeMs float64   `json:"average_response_time_ms"`
}
