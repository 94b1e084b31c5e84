package session

// largeGroup is the participant count above which stragglers are tolerated.
const largeGroup = 5

// ShouldAdvanceEarly decides whether the active question can close before its timer.
// Everyone answered, or in groups larger than five at least 90% (rounded up) answered.
func ShouldAdvanceEarly(participantCount, answeredCount int) bool {
	if participantCount <= 0 {
		return false
	}
	if answeredCount >= participantCount {
		return true
	}
	if participantCount > largeGroup {
		threshold := (participantCount*9 + 9) / 10
		return answeredCount >= threshold
	}
	return false
}
