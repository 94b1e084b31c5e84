package scoring

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// ScoringConfig holds configurable scoring constants (defaults match requirements).
type ScoringConfig struct {
	BaseScore    int // default: 100
	MaxTimeBonus int // default: 50
}

// DefaultScoringConfig returns production defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		BaseScore:    100,
		MaxTimeBonus: 50,
	}
}

// Engine computes server-side scores with configurable constants.
type Engine struct {
	config ScoringConfig
}

// NewEngine creates a scoring engine with the provided config.
func NewEngine(config ScoringConfig) *Engine {
	return &Engine{config: config}
}

// Score computes correctness and points for a single answer.
// Formula: base + speed_bonus
// - base: awarded only if correct
// - speed_bonus: max when answered instantly, decays linearly to 0 at the time limit
func (e *Engine) Score(q domain.Question, selectedOption int, responseTimeMs int64) (bool, int) {
	if selectedOption == domain.NoAnswer {
		return false, 0
	}
	if selectedOption != q.CorrectOption {
		return false, 0
	}

	points := e.config.BaseScore

	timeLimitMs := float64(q.TimeLimitSeconds) * 1000
	if timeLimitMs > 0 {
		ratio := 1 - float64(responseTimeMs)/timeLimitMs
		if ratio > 1.0 {
			ratio = 1.0
		}
		bonus := int(math.Round(float64(e.config.MaxTimeBonus) * ratio))
		if bonus > 0 {
			points += bonus
		}
	}

	return true, points
}

// Aggregate rebuilds the leaderboard from the answer ledger.
// Participants keep their given (join) order on ties; totals are recomputed from each
// answer rather than read from the incremental score counters.
func (e *Engine) Aggregate(
	participants []domain.Participant,
	answers []domain.Answer,
	questions []domain.Question,
) []domain.LeaderboardEntry {
	byQuestion := make(map[uuid.UUID]domain.Question, len(questions))
	for _, q := range questions {
		byQuestion[q.ID] = q
	}

	byParticipant := make(map[uuid.UUID][]domain.Answer, len(participants))
	for _, ans := range answers {
		byParticipant[ans.ParticipantID] = append(byParticipant[ans.ParticipantID], ans)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		entry := domain.LeaderboardEntry{
			ParticipantID:  p.ID,
			DisplayName:    p.DisplayName,
			TotalQuestions: len(questions),
		}

		own := byParticipant[p.ID]
		var totalResponse int64
		var counted int
		for _, ans := range own {
			q, ok := byQuestion[ans.QuestionID]
			if !ok {
				continue
			}
			correct, points := e.Score(q, ans.SelectedOption, ans.ResponseTimeMs)
			if correct {
				entry.CorrectAnswers++
			}
			entry.TotalScore += points
			totalResponse += ans.ResponseTimeMs
			counted++
		}
		if counted > 0 {
			entry.AverageResponseTimeMs = float64(totalResponse) / float64(counted)
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	return entries
}
