package leaderboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/db/repository"
)

// SnapshotWorker persists queued leaderboards into Postgres.
type SnapshotWorker struct {
	jobs      <-chan Job
	snapshots SnapshotStore
	logger    zerolog.Logger
}

func NewSnapshotWorker(svc *Service, logger zerolog.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		jobs:      svc.Jobs(),
		snapshots: svc.snapshots,
		logger:    logger.With().Str("component", "leaderboard_snapshot_worker").Logger(),
	}
}

// Run blocks until context cancellation.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	if w.jobs == nil || w.snapshots == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-w.jobs:
			if err := w.persist(ctx, job); err != nil {
				w.logger.Warn().Err(err).Str("quiz_id", job.QuizID.String()).Msg("snapshot failed")
			}
		}
	}
}

func (w *SnapshotWorker) persist(ctx context.Context, job Job) error {
	data, err := json.Marshal(job.Entries)
	if err != nil {
		return err
	}
	sourceHash := sha256.Sum256(data)

	inserted, err := w.snapshots.InsertSnapshot(ctx, repository.LeaderboardSnapshot{
		QuizID:      job.QuizID,
		GeneratedAt: job.GeneratedAt,
		Entries:     data,
		SourceHash:  hex.EncodeToString(sourceHash[:]),
	})
	if err != nil {
		return err
	}

	w.logger.Info().
		Str("quiz_id", job.QuizID.String()).
		Int("entries", len(job.Entries)).
		Bool("inserted", inserted).
		Time("generated_at", job.GeneratedAt).
		Msg("leaderboard snapshot persisted")
	return nil
}
