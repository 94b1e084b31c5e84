package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/auth"
	"github.com/gokatarajesh/livequiz/internal/auth/jwt"
	"github.com/gokatarajesh/livequiz/internal/server"
	httperrors "github.com/gokatarajesh/livequiz/pkg/http/errors"
	ws "github.com/gokatarajesh/livequiz/pkg/http/ws"
)

// WSHandler subscribes WebSocket clients to a quiz channel and serves their requests.
type WSHandler struct {
	service *Service
	hub     *ws.Hub
	logger  zerolog.Logger
}

// NewWSHandler creates a session WebSocket handler.
func NewWSHandler(service *Service, hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		logger:  logger.With().Str("component", "session_ws").Logger(),
	}
}

// HandleWebSocket handles GET /ws/quizzes/{id}?role=participant|admin&token=...
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Missing token")
		return
	}
	quizID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidQuizID, "Invalid quiz ID")
		return
	}

	channel := ParticipantChannel(quizID)
	role := r.URL.Query().Get("role")
	switch role {
	case "", jwt.RoleParticipant:
		role = jwt.RoleParticipant
	case jwt.RoleAdmin:
		if !claims.IsAdmin() {
			httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Admin role required")
			return
		}
		channel = AdminChannel(quizID)
	default:
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Unknown role")
		return
	}

	snap, err := h.service.GetSession(r.Context(), quizID)
	if err != nil {
		status, code, _ := classify(err)
		httperrors.RespondError(w, status, code, err.Error())
		return
	}

	raw, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := ws.NewConnection(raw, h.logger)
	h.hub.Register(conn)
	if err := h.hub.Subscribe(channel, conn.ID); err != nil {
		h.logger.Warn().Err(err).Msg("subscribe failed")
		h.hub.Unregister(conn.ID)
		return
	}
	h.reply(conn, ws.TypeSessionState, "", snap)

	h.logger.Info().
		Str("quiz_id", quizID.String()).
		Str("participant_id", claims.ParticipantID.String()).
		Str("role", role).
		Msg("client subscribed")

	go conn.WritePump()
	conn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(context.Background(), conn, quizID, claims, msg)
	})

	h.hub.Unregister(conn.ID)
}

// handleMessage routes incoming WebSocket messages.
func (h *WSHandler) handleMessage(ctx context.Context, conn *ws.Connection, quizID uuid.UUID, claims *jwt.Claims, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeSubmitAnswer:
		return h.handleSubmitAnswer(ctx, conn, quizID, claims, msg)
	case ws.TypeRequestState:
		snap, err := h.service.GetSession(ctx, quizID)
		if err != nil {
			return h.replyError(conn, msg.RequestID, err)
		}
		return h.reply(conn, ws.TypeSessionState, msg.RequestID, snap)
	case ws.TypeRequestTimer:
		view, err := h.service.GetRemainingTime(ctx, quizID)
		if err != nil {
			return h.replyError(conn, msg.RequestID, err)
		}
		return h.reply(conn, ws.TypeTimer, msg.RequestID, view)
	case ws.TypePing:
		return h.reply(conn, ws.TypePong, msg.RequestID, struct{}{})
	default:
		return h.reply(conn, ws.TypeError, msg.RequestID, ws.ErrorPayload{
			Code:    httperrors.ErrCodeUnknownMessageType,
			Message: fmt.Sprintf("Unknown message type: %s", msg.Type),
		})
	}
}

func (h *WSHandler) handleSubmitAnswer(ctx context.Context, conn *ws.Connection, quizID uuid.UUID, claims *jwt.Claims, msg ws.Message) error {
	var req ws.SubmitAnswerPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return h.reply(conn, ws.TypeError, msg.RequestID, ws.ErrorPayload{
			Code:    httperrors.ErrCodeInvalidPayload,
			Message: "Invalid submit_answer payload",
		})
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return h.reply(conn, ws.TypeError, msg.RequestID, ws.ErrorPayload{
			Code:    httperrors.ErrCodeInvalidPayload,
			Message: "Invalid question ID",
		})
	}

	result, err := h.service.SubmitAnswer(ctx, SubmitRequest{
		ParticipantID:  claims.ParticipantID,
		QuizID:         quizID,
		QuestionID:     questionID,
		SelectedOption: req.SelectedOption,
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		return h.replyError(conn, msg.RequestID, err)
	}
	return h.reply(conn, ws.TypeAnswerResult, msg.RequestID, result)
}

func (h *WSHandler) replyError(conn *ws.Connection, requestID string, err error) error {
	status, code, _ := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("ws request failed")
		message = "Internal error"
	}
	return h.reply(conn, ws.TypeError, requestID, ws.ErrorPayload{Code: code, Message: message})
}

func (h *WSHandler) reply(conn *ws.Connection, msgType, requestID string, payload any) error {
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	msg.RequestID = requestID
	return conn.Send(msg)
}
