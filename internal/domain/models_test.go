package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestQuestionValidate(t *testing.T) {
	valid := Question{Text: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectOption: 0, TimeLimitSeconds: 15}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name  string
		edit  func(q *Question)
		field string
	}{
		{"no text", func(q *Question) { q.Text = "" }, "text"},
		{"one option", func(q *Question) { q.Options = []string{"Paris"} }, "options"},
		{"seven options", func(q *Question) { q.Options = []string{"a", "b", "c", "d", "e", "f", "g"} }, "options"},
		{"correct out of range", func(q *Question) { q.CorrectOption = 2 }, "correct_option"},
		{"negative correct", func(q *Question) { q.CorrectOption = -1 }, "correct_option"},
		{"limit too short", func(q *Question) { q.TimeLimitSeconds = 4 }, "time_limit_seconds"},
		{"limit too long", func(q *Question) { q.TimeLimitSeconds = 61 }, "time_limit_seconds"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := valid
			q.Options = append([]string(nil), valid.Options...)
			tc.edit(&q)

			err := q.Validate()
			var v *ValidationError
			if assert.True(t, errors.As(err, &v)) {
				assert.Equal(t, tc.field, v.Field)
			}
			assert.True(t, IsValidation(err))
		})
	}
}

func TestQuizSessionCloneIsDeep(t *testing.T) {
	started := time.Now()
	orig := &QuizSession{
		ID:                uuid.New(),
		Phase:             PhaseActive,
		QuestionIDs:       []uuid.UUID{uuid.New()},
		Participants:      []uuid.UUID{uuid.New()},
		QuestionStartedAt: &started,
	}

	cp := orig.Clone()
	cp.Participants = append(cp.Participants, uuid.New())
	cp.QuestionIDs[0] = uuid.New()
	*cp.QuestionStartedAt = started.Add(time.Hour)

	assert.Len(t, orig.Participants, 1)
	assert.NotEqual(t, cp.QuestionIDs[0], orig.QuestionIDs[0])
	assert.Equal(t, started, *orig.QuestionStartedAt)
	assert.Nil(t, (*QuizSession)(nil).Clone())
}

func TestErrorsWrapBases(t *testing.T) {
	assert.True(t, errors.Is(ErrQuizNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrParticipantNotFound, ErrNotFound))
	assert.True(t, errors.Is(&TransitionError{Op: "start", Phase: PhaseActive}, ErrInvalidTransition))
	assert.EqualError(t, &TransitionError{Op: "start", Phase: PhaseActive}, "cannot start session in phase active")
}
