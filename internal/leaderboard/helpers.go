package leaderboard

import "github.com/gokatarajesh/livequiz/internal/domain"

// RankedEntry is a leaderboard row with its 1-based position.
type RankedEntry struct {
	Rank int `json:"rank"`
	domain.LeaderboardEntry
}

// Rank numbers already-sorted entries; equal scores share a rank.
func Rank(entries []domain.LeaderboardEntry) []RankedEntry {
	result := make([]RankedEntry, len(entries))
	for i, e := range entries {
		rank := i + 1
		if i > 0 && e.TotalScore == entries[i-1].TotalScore {
			rank = result[i-1].Rank
		}
		result[i] = RankedEntry{Rank: rank, LeaderboardEntry: e}
	}
	return result
}
