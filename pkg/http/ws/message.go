package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeSubmitAnswer = "submit_answer"
	TypeRequestState = "request_state"
	TypeRequestTimer = "request_timer"
	TypePing         = "ping"

	// Server -> Client
	TypeQuizStarted       = "quiz_started"
	TypeQuestionStarted   = "question_started"
	TypeQuizFinished      = "quiz_finished"
	TypeQuizReset         = "quiz_reset"
	TypeParticipantJoined = "participant_joined"
	TypeAnswerProgress    = "answer_progress"
	TypeLeaderboard       = "leaderboard"
	TypeAnswerResult      = "answer_result"
	TypeSessionState      = "session_state"
	TypeTimer             = "timer"
	TypeError             = "error"
	TypePong              = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// Client Messages (incoming)

type SubmitAnswerPayload struct {
	QuestionID     string `json:"question_id"`
	SelectedOption int    `json:"selected_option"`
	ResponseTimeMs int64  `json:"response_time_ms"`
}

// Server Messages (outgoing)

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
