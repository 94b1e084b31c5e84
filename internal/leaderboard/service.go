package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/db/repository"
	"github.com/gokatarajesh/livequiz/internal/domain"
)

// Cache is the hot store for final standings (Redis or in-process).
type Cache interface {
	Store(ctx context.Context, quizID uuid.UUID, entries []domain.LeaderboardEntry) error
	Load(ctx context.Context, quizID uuid.UUID) ([]domain.LeaderboardEntry, bool, error)
	Invalidate(ctx context.Context, quizID uuid.UUID) error
}

// SnapshotStore persists standings durably.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, snap repository.LeaderboardSnapshot) (bool, error)
	LatestSnapshot(ctx context.Context, quizID uuid.UUID) (repository.LeaderboardSnapshot, error)
	ListSnapshots(ctx context.Context, quizID uuid.UUID, limit int) ([]repository.LeaderboardSnapshot, error)
}

// ServiceOptions configures leaderboard service behavior.
type ServiceOptions struct {
	// QueueSize bounds pending snapshot writes.
	QueueSize int
}

// Job is one pending snapshot write.
type Job struct {
	QuizID      uuid.UUID
	Entries     []domain.LeaderboardEntry
	GeneratedAt time.Time
}

// Service caches finished leaderboards and hands them to the snapshot worker.
type Service struct {
	cache     Cache
	snapshots SnapshotStore
	jobs      chan Job
	logger    zerolog.Logger
}

// NewService constructs a leaderboard service; snapshots may be nil when Postgres is not configured.
func NewService(cache Cache, snapshots SnapshotStore, logger zerolog.Logger, opts ServiceOptions) *Service {
	size := opts.QueueSize
	if size <= 0 {
		size = 64
	}
	svc := &Service{
		cache:     cache,
		snapshots: snapshots,
		logger:    logger.With().Str("component", "leaderboard").Logger(),
	}
	if snapshots != nil {
		svc.jobs = make(chan Job, size)
	}
	return svc
}

// Store caches entries and queues a durable snapshot stamped with finishedAt,
// the moment the run ended. The snapshot is queued even when the cache write fails.
func (s *Service) Store(ctx context.Context, quizID uuid.UUID, entries []domain.LeaderboardEntry, finishedAt time.Time) error {
	var cacheErr error
	if err := s.cache.Store(ctx, quizID, entries); err != nil {
		cacheErr = fmt.Errorf("cache leaderboard: %w", err)
	}
	if s.jobs == nil {
		return cacheErr
	}

	select {
	case s.jobs <- Job{QuizID: quizID, Entries: entries, GeneratedAt: finishedAt.UTC()}:
	default:
		s.logger.Warn().Str("quiz_id", quizID.String()).Msg("snapshot queue full, skipping persistence")
	}
	return cacheErr
}

// Load reads the cache, falling back to the newest persisted snapshot of the run
// that ended at finishedAt. Snapshots of earlier runs (before a reset) are ignored.
func (s *Service) Load(ctx context.Context, quizID uuid.UUID, finishedAt time.Time) ([]domain.LeaderboardEntry, bool, error) {
	entries, ok, err := s.cache.Load(ctx, quizID)
	if err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("leaderboard cache read failed")
	} else if ok {
		return entries, true, nil
	}

	if s.snapshots == nil {
		return nil, false, err
	}
	snap, serr := s.snapshots.LatestSnapshot(ctx, quizID)
	if errors.Is(serr, domain.ErrNotFound) {
		return nil, false, nil
	}
	if serr != nil {
		return nil, false, fmt.Errorf("load snapshot: %w", serr)
	}
	// Postgres keeps microseconds.
	if snap.GeneratedAt.Before(finishedAt.Truncate(time.Microsecond)) {
		return nil, false, nil
	}
	if err := json.Unmarshal(snap.Entries, &entries); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return entries, true, nil
}

// Invalidate drops the cached standings. Persisted snapshots stay as history.
func (s *Service) Invalidate(ctx context.Context, quizID uuid.UUID) error {
	return s.cache.Invalidate(ctx, quizID)
}

// History lists persisted snapshots of a quiz, newest first.
func (s *Service) History(ctx context.Context, quizID uuid.UUID, limit int) ([]repository.LeaderboardSnapshot, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	return s.snapshots.ListSnapshots(ctx, quizID, limit)
}

// Jobs exposes the snapshot queue to the worker. It is nil without a snapshot store.
func (s *Service) Jobs() <-chan Job {
	return s.jobs
}
