package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// AnyIndex lets AdvanceQuestion move on from whatever question is current.
const AnyIndex = -1

// Notification events besides the transition events.
const (
	EventParticipantJoined = "participant_joined"
	EventAnswerProgress    = "answer_progress"
	EventLeaderboard       = "leaderboard"
)

// CreateQuizRequest seeds a new session in the waiting phase.
type CreateQuizRequest struct {
	Title     string            `json:"title"`
	Questions []domain.Question `json:"questions"`
}

// SubmitRequest is one participant's answer to the active question.
type SubmitRequest struct {
	ParticipantID  uuid.UUID `json:"participant_id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

// SubmitResult is the immediate feedback returned to the participant.
type SubmitResult struct {
	IsCorrect     bool `json:"is_correct"`
	CorrectOption int  `json:"correct_option"`
	Points        int  `json:"points"`
}

// RemainingTime is the poll view of the countdown.
type RemainingTime struct {
	QuizID           uuid.UUID    `json:"quiz_id"`
	Phase            domain.Phase `json:"phase"`
	Active           bool         `json:"active"`
	QuestionIndex    int          `json:"question_index"`
	QuestionID       uuid.UUID    `json:"question_id"`
	RemainingSeconds int          `json:"remaining_seconds"`
}

// Completion reports answer progress on a question.
type Completion struct {
	QuizID           uuid.UUID `json:"quiz_id"`
	QuestionID       uuid.UUID `json:"question_id"`
	AnsweredCount    int       `json:"answered_count"`
	ParticipantCount int       `json:"participant_count"`
	AllAnswered      bool      `json:"all_answered"`
}

// QuestionView is a question as participants see it (no correct option).
type QuestionView struct {
	ID               uuid.UUID `json:"id"`
	Text             string    `json:"text"`
	Options          []string  `json:"options"`
	TimeLimitSeconds int       `json:"time_limit_seconds"`
}

// Snapshot is the broadcast and poll view of a session.
type Snapshot struct {
	QuizID            uuid.UUID     `json:"quiz_id"`
	Title             string        `json:"title"`
	Phase             domain.Phase  `json:"phase"`
	QuestionIndex     int           `json:"question_index"`
	TotalQuestions    int           `json:"total_questions"`
	Question          *QuestionView `json:"question,omitempty"`
	QuestionStartedAt *time.Time    `json:"question_started_at,omitempty"`
	RemainingSeconds  int           `json:"remaining_seconds"`
	ParticipantCount  int           `json:"participant_count"`
	Version           int64         `json:"version"`
}

// Leaderboard is the broadcast payload on quiz completion.
type Leaderboard struct {
	QuizID  uuid.UUID                 `json:"quiz_id"`
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// ParticipantJoined is sent on the admin channel when someone joins.
type ParticipantJoined struct {
	QuizID           uuid.UUID `json:"quiz_id"`
	ParticipantID    uuid.UUID `json:"participant_id"`
	DisplayName      string    `json:"display_name"`
	ParticipantCount int       `json:"participant_count"`
}

func viewOf(q domain.Question) *QuestionView {
	return &QuestionView{
		ID:               q.ID,
		Text:             q.Text,
		Options:          append([]string(nil), q.Options...),
		TimeLimitSeconds: q.TimeLimitSeconds,
	}
}
