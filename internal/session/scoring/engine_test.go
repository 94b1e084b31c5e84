package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

func question(limit int) domain.Question {
	return domain.Question{
		ID:               uuid.New(),
		Text:             "2 + 2?",
		Options:          []string{"3", "4", "5"},
		CorrectOption:    1,
		TimeLimitSeconds: limit,
	}
}

func TestScore(t *testing.T) {
	engine := NewEngine(DefaultScoringConfig())
	q := question(15)

	cases := []struct {
		name     string
		selected int
		rt       int64
		correct  bool
		points   int
	}{
		{"no answer", domain.NoAnswer, 0, false, 0},
		{"no answer late", domain.NoAnswer, 20000, false, 0},
		{"wrong", 0, 1000, false, 0},
		{"instant", 1, 0, true, 150},
		{"two seconds", 1, 2000, true, 143},
		{"at limit", 1, 15000, true, 100},
		{"late", 1, 30000, true, 100},
		{"negative time", 1, -500, true, 150},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			correct, points := engine.Score(q, tc.selected, tc.rt)
			assert.Equal(t, tc.correct, correct)
			assert.Equal(t, tc.points, points)
		})
	}
}

func TestScoreZeroTimeLimitAwardsBaseOnly(t *testing.T) {
	engine := NewEngine(DefaultScoringConfig())
	correct, points := engine.Score(question(0), 1, 0)
	assert.True(t, correct)
	assert.Equal(t, 100, points)
}

func TestAggregateRanksAndRecomputes(t *testing.T) {
	engine := NewEngine(DefaultScoringConfig())
	quizID := uuid.New()
	q1, q2 := question(15), question(15)

	alice := domain.Participant{ID: uuid.New(), QuizID: quizID, DisplayName: "alice"}
	bob := domain.Participant{ID: uuid.New(), QuizID: quizID, DisplayName: "bob"}
	carol := domain.Participant{ID: uuid.New(), QuizID: quizID, DisplayName: "carol"}

	answers := []domain.Answer{
		// stored points are ignored; totals come from recomputation
		{ParticipantID: bob.ID, QuestionID: q1.ID, SelectedOption: 0, ResponseTimeMs: 1000, Points: 999},
		{ParticipantID: alice.ID, QuestionID: q1.ID, SelectedOption: 1, ResponseTimeMs: 2000},
		{ParticipantID: alice.ID, QuestionID: q2.ID, SelectedOption: 1, ResponseTimeMs: 4000},
	}

	entries := engine.Aggregate([]domain.Participant{bob, carol, alice}, answers, []domain.Question{q1, q2})

	if assert.Len(t, entries, 3) {
		assert.Equal(t, alice.ID, entries[0].ParticipantID)
		assert.Equal(t, 143+137, entries[0].TotalScore)
		assert.Equal(t, 2, entries[0].CorrectAnswers)
		assert.Equal(t, 2, entries[0].TotalQuestions)
		assert.InDelta(t, 3000.0, entries[0].AverageResponseTimeMs, 0.001)

		// tie at zero keeps join order
		assert.Equal(t, bob.ID, entries[1].ParticipantID)
		assert.Equal(t, 0, entries[1].TotalScore)
		assert.InDelta(t, 1000.0, entries[1].AverageResponseTimeMs, 0.001)
		assert.Equal(t, carol.ID, entries[2].ParticipantID)
		assert.Zero(t, entries[2].AverageResponseTimeMs)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	engine := NewEngine(DefaultScoringConfig())
	q := question(10)

	var participants []domain.Participant
	var answers []domain.Answer
	for i := 0; i < 8; i++ {
		p := domain.Participant{ID: uuid.New(), DisplayName: "p"}
		participants = append(participants, p)
		answers = append(answers, domain.Answer{ParticipantID: p.ID, QuestionID: q.ID, SelectedOption: i % 2, ResponseTimeMs: 1000})
	}

	first := engine.Aggregate(participants, answers, []domain.Question{q})
	second := engine.Aggregate(participants, answers, []domain.Question{q})
	assert.Equal(t, first, second)
}
