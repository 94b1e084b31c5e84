package errors

// Error codes carried in ErrorResponse.Error.
const (
	// Authentication errors
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"

	// Resource errors
	ErrCodeNotFound         = "not_found"
	ErrCodeQuizNotFound     = "quiz_not_found"
	ErrCodeQuestionNotFound = "question_not_found"
	ErrCodeConflict         = "conflict"

	// Session errors
	ErrCodeInvalidQuizID     = "invalid_quiz_id"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeStaleSubmission   = "stale_submission"
	ErrCodeNotAParticipant   = "not_a_participant"
	ErrCodeLockTimeout       = "lock_timeout"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError = "internal_error"

	// Leaderboard errors
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
)
