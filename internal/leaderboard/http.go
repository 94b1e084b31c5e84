package leaderboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/domain"
	httperrors "github.com/gokatarajesh/livequiz/pkg/http/errors"
)

// HTTPHandler exposes persisted leaderboard history.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

type snapshotResponse struct {
	ID          int64         `json:"id"`
	GeneratedAt time.Time     `json:"generated_at"`
	SourceHash  string        `json:"source_hash"`
	Entries     []RankedEntry `json:"entries"`
}

// HandleHistory lists persisted snapshots of a quiz.
// Route: GET /v1/quizzes/{id}/leaderboard/history?limit=10
func (h *HTTPHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidQuizID, "Invalid quiz ID")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	snaps, err := h.svc.History(r.Context(), quizID, limit)
	if err != nil {
		h.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("snapshot fetch failed")
		httperrors.RespondError(w, http.StatusServiceUnavailable, httperrors.ErrCodeLeaderboardFetchFailed, "Failed to fetch leaderboard history")
		return
	}

	out := make([]snapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		var entries []domain.LeaderboardEntry
		if err := json.Unmarshal(snap.Entries, &entries); err != nil {
			h.logger.Warn().Err(err).Int64("snapshot_id", snap.ID).Msg("snapshot payload decode failed")
			continue
		}
		out = append(out, snapshotResponse{
			ID:          snap.ID,
			GeneratedAt: snap.GeneratedAt,
			SourceHash:  snap.SourceHash,
			Entries:     Rank(entries),
		})
	}

	writeJSON(w, map[string]interface{}{
		"quiz_id":     quizID,
		"snapshots":   out,
		"retrievedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
