package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/livequiz/internal/db/postgres"
	"github.com/gokatarajesh/livequiz/internal/domain"
)

// LeaderboardSnapshot is one persisted copy of a quiz's final standings.
type LeaderboardSnapshot struct {
	ID          int64
	QuizID      uuid.UUID
	GeneratedAt time.Time
	Entries     []byte
	SourceHash  string
}

// LeaderboardRepository persists leaderboard snapshots.
type LeaderboardRepository struct {
	db postgres.DBTX
}

func NewLeaderboardRepository(db postgres.DBTX) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// InsertSnapshot stores a snapshot. Identical content for the same quiz is stored once;
// inserted is false when the hash was already present.
func (r *LeaderboardRepository) InsertSnapshot(ctx context.Context, snap LeaderboardSnapshot) (bool, error) {
	query := `
		INSERT INTO leaderboard_snapshots (quiz_id, generated_at, entries, source_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (quiz_id, source_hash) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, snap.QuizID.String(), snap.GeneratedAt, snap.Entries, snap.SourceHash)
	if err != nil {
		return false, fmt.Errorf("insert leaderboard snapshot: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LatestSnapshot returns the newest snapshot of a quiz.
func (r *LeaderboardRepository) LatestSnapshot(ctx context.Context, quizID uuid.UUID) (LeaderboardSnapshot, error) {
	query := `
		SELECT id, generated_at, entries, source_hash
		FROM leaderboard_snapshots
		WHERE quiz_id = $1
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`
	snap := LeaderboardSnapshot{QuizID: quizID}
	err := r.db.QueryRow(ctx, query, quizID.String()).Scan(&snap.ID, &snap.GeneratedAt, &snap.Entries, &snap.SourceHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaderboardSnapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return LeaderboardSnapshot{}, fmt.Errorf("latest leaderboard snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns up to limit snapshots, newest first.
func (r *LeaderboardRepository) ListSnapshots(ctx context.Context, quizID uuid.UUID, limit int) ([]LeaderboardSnapshot, error) {
	query := `
		SELECT id, generated_at, entries, source_hash
		FROM leaderboard_snapshots
		WHERE quiz_id = $1
		ORDER BY generated_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, quizID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard snapshots: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardSnapshot
	for rows.Next() {
		snap := LeaderboardSnapshot{QuizID: quizID}
		if err := rows.Scan(&snap.ID, &snap.GeneratedAt, &snap.Entries, &snap.SourceHash); err != nil {
			return nil, fmt.Errorf("scan leaderboard snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard snapshots: %w", err)
	}
	return out, nil
}
