package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

func TestLeaderboardRepository_InsertSnapshot(t *testing.T) {
	db := new(mockDB)
	repo := NewLeaderboardRepository(db)

	snap := LeaderboardSnapshot{
		QuizID:      uuid.New(),
		GeneratedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Entries:     []byte(`[]`),
		SourceHash:  "abc",
	}
	db.On("Exec", mock.Anything, mock.Anything, snap.QuizID.String(), snap.GeneratedAt, snap.Entries, snap.SourceHash).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil).Once()
	db.On("Exec", mock.Anything, mock.Anything, snap.QuizID.String(), snap.GeneratedAt, snap.Entries, snap.SourceHash).
		Return(pgconn.NewCommandTag("INSERT 0 0"), nil).Once()

	inserted, err := repo.InsertSnapshot(context.Background(), snap)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertSnapshot(context.Background(), snap)
	require.NoError(t, err)
	assert.False(t, inserted)
	db.AssertExpectations(t)
}

func TestLeaderboardRepository_LatestSnapshot(t *testing.T) {
	db := new(mockDB)
	repo := NewLeaderboardRepository(db)
	quizID := uuid.New()
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	db.On("QueryRow", mock.Anything, mock.Anything, quizID.String()).
		Return(fakeRow{values: []any{int64(7), at, []byte(`[{"display_name":"ann"}]`), "h"}})

	snap, err := repo.LatestSnapshot(context.Background(), quizID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.ID)
	assert.Equal(t, quizID, snap.QuizID)
	assert.Equal(t, at, snap.GeneratedAt)
}

func TestLeaderboardRepository_LatestSnapshotMissing(t *testing.T) {
	db := new(mockDB)
	repo := NewLeaderboardRepository(db)

	db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(fakeRow{err: pgx.ErrNoRows})

	_, err := repo.LatestSnapshot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeaderboardRepository_ListSnapshots(t *testing.T) {
	db := new(mockDB)
	repo := NewLeaderboardRepository(db)
	quizID := uuid.New()
	at := time.Now().UTC()

	rows := &fakeRows{rows: [][]any{
		{int64(2), at, []byte(`[]`), "b"},
		{int64(1), at.Add(-time.Minute), []byte(`[]`), "a"},
	}}
	db.On("Query", mock.Anything, mock.Anything, quizID.String(), 5).Return(rows, nil)

	got, err := repo.ListSnapshots(context.Background(), quizID, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].SourceHash)
}
