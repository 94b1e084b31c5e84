package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/auth"
	"github.com/gokatarajesh/livequiz/internal/domain"
	"github.com/gokatarajesh/livequiz/internal/leaderboard"
	httperrors "github.com/gokatarajesh/livequiz/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for quiz sessions.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for session endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "session_http").Logger(),
	}
}

// Register mounts the session routes. Claims must already be on the request context.
func (h *HTTPHandlers) Register(mux *http.ServeMux) {
	admin := func(fn http.HandlerFunc) http.Handler { return auth.RequireAdmin(fn) }
	member := func(fn http.HandlerFunc) http.Handler { return auth.RequireAuth(fn) }

	mux.Handle("POST /v1/quizzes", admin(h.CreateQuiz))
	mux.Handle("POST /v1/quizzes/{id}/start", admin(h.StartQuiz))
	mux.Handle("POST /v1/quizzes/{id}/advance", admin(h.AdvanceQuestion))
	mux.Handle("POST /v1/quizzes/{id}/reset", admin(h.ResetQuiz))

	mux.Handle("POST /v1/quizzes/{id}/join", member(h.JoinQuiz))
	mux.Handle("POST /v1/quizzes/{id}/answers", member(h.SubmitAnswer))
	mux.Handle("GET /v1/quizzes/{id}", member(h.GetSession))
	mux.Handle("GET /v1/quizzes/{id}/remaining", member(h.GetRemainingTime))
	mux.Handle("GET /v1/quizzes/{id}/questions/{questionID}/completion", member(h.GetAnswerCompletion))
	mux.Handle("GET /v1/quizzes/{id}/leaderboard", member(h.GetLeaderboard))
}

// CreateQuiz handles POST /v1/quizzes
func (h *HTTPHandlers) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	sess, err := h.service.CreateQuiz(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "create quiz")
		return
	}
	h.respondJSON(w, http.StatusCreated, sess)
}

type joinRequest struct {
	DisplayName string `json:"display_name"`
}

// JoinQuiz handles POST /v1/quizzes/{id}/join
func (h *HTTPHandlers) JoinQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	claims, _ := auth.ClaimsFromContext(r.Context())

	var req joinRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
			return
		}
	}
	if req.DisplayName == "" {
		req.DisplayName = claims.DisplayName
	}

	participant, err := h.service.JoinQuiz(r.Context(), quizID, claims.ParticipantID, req.DisplayName)
	if err != nil {
		h.respondServiceError(w, err, "join quiz")
		return
	}
	h.respondJSON(w, http.StatusOK, participant)
}

// StartQuiz handles POST /v1/quizzes/{id}/start
func (h *HTTPHandlers) StartQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	sess, err := h.service.StartQuiz(r.Context(), quizID)
	h.respondSession(w, r, sess, err, "start quiz")
}

type advanceRequest struct {
	FromIndex *int `json:"from_index"`
}

// AdvanceQuestion handles POST /v1/quizzes/{id}/advance
func (h *HTTPHandlers) AdvanceQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}

	var req advanceRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
			return
		}
	}
	from := AnyIndex
	if req.FromIndex != nil {
		from = *req.FromIndex
	}

	sess, err := h.service.AdvanceQuestion(r.Context(), quizID, from)
	h.respondSession(w, r, sess, err, "advance question")
}

// ResetQuiz handles POST /v1/quizzes/{id}/reset
func (h *HTTPHandlers) ResetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	sess, err := h.service.ResetQuiz(r.Context(), quizID)
	h.respondSession(w, r, sess, err, "reset quiz")
}

type answerRequest struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

// SubmitAnswer handles POST /v1/quizzes/{id}/answers
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	claims, _ := auth.ClaimsFromContext(r.Context())

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	result, err := h.service.SubmitAnswer(r.Context(), SubmitRequest{
		ParticipantID:  claims.ParticipantID,
		QuizID:         quizID,
		QuestionID:     req.QuestionID,
		SelectedOption: req.SelectedOption,
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		h.respondServiceError(w, err, "submit answer")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// GetSession handles GET /v1/quizzes/{id}
func (h *HTTPHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	snap, err := h.service.GetSession(r.Context(), quizID)
	if err != nil {
		h.respondServiceError(w, err, "get session")
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

// GetRemainingTime handles GET /v1/quizzes/{id}/remaining
func (h *HTTPHandlers) GetRemainingTime(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetRemainingTime(r.Context(), quizID)
	if err != nil {
		h.respondServiceError(w, err, "get remaining time")
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// GetAnswerCompletion handles GET /v1/quizzes/{id}/questions/{questionID}/completion
func (h *HTTPHandlers) GetAnswerCompletion(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	questionID, err := uuid.Parse(r.PathValue("questionID"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "Invalid question ID", "question_id")
		return
	}

	completion, err := h.service.GetAnswerCompletion(r.Context(), quizID, questionID)
	if err != nil {
		h.respondServiceError(w, err, "get completion")
		return
	}
	h.respondJSON(w, http.StatusOK, completion)
}

// GetLeaderboard handles GET /v1/quizzes/{id}/leaderboard
func (h *HTTPHandlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.GetLeaderboard(r.Context(), quizID)
	if err != nil {
		h.respondServiceError(w, err, "get leaderboard")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id": quizID,
		"entries": leaderboard.Rank(entries),
	})
}

func (h *HTTPHandlers) quizID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidQuizID, "Invalid quiz ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *HTTPHandlers) respondSession(w http.ResponseWriter, r *http.Request, sess *domain.QuizSession, err error, op string) {
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	snap, err := h.service.snapshot(r.Context(), sess)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

// respondServiceError maps engine errors onto status codes and error codes.
func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error, op string) {
	status, code, field := classify(err)
	switch {
	case field != "":
		httperrors.RespondValidationError(w, code, err.Error(), field)
	case status == http.StatusInternalServerError:
		h.logger.Error().Err(err).Str("op", op).Msg("request failed")
		httperrors.RespondInternalError(w, "Internal error")
	default:
		httperrors.RespondError(w, status, code, err.Error())
	}
}

// classify translates an engine error into transport terms.
func classify(err error) (status int, code, field string) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, httperrors.ErrCodeValidationFailed, validation.Field
	case errors.Is(err, domain.ErrQuizNotFound):
		return http.StatusNotFound, httperrors.ErrCodeQuizNotFound, ""
	case errors.Is(err, domain.ErrParticipantNotFound):
		return http.StatusForbidden, httperrors.ErrCodeNotAParticipant, ""
	case errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound, httperrors.ErrCodeQuestionNotFound, ""
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, httperrors.ErrCodeNotFound, ""
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, httperrors.ErrCodeInvalidTransition, ""
	case errors.Is(err, domain.ErrStaleSubmission):
		return http.StatusConflict, httperrors.ErrCodeStaleSubmission, ""
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, httperrors.ErrCodeConflict, ""
	case errors.Is(err, ErrLockUnavailable):
		return http.StatusServiceUnavailable, httperrors.ErrCodeLockTimeout, ""
	default:
		return http.StatusInternalServerError, httperrors.ErrCodeInternalError, ""
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("encode response failed")
	}
}
