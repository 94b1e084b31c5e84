package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/livequiz/internal/db/repository"
	"github.com/gokatarajesh/livequiz/internal/domain"
	"github.com/gokatarajesh/livequiz/internal/store/memory"
)

type mockSnapshots struct {
	mock.Mock
}

func (m *mockSnapshots) InsertSnapshot(ctx context.Context, snap repository.LeaderboardSnapshot) (bool, error) {
	args := m.Called(ctx, snap)
	return args.Bool(0), args.Error(1)
}

func (m *mockSnapshots) LatestSnapshot(ctx context.Context, quizID uuid.UUID) (repository.LeaderboardSnapshot, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(repository.LeaderboardSnapshot), args.Error(1)
}

func (m *mockSnapshots) ListSnapshots(ctx context.Context, quizID uuid.UUID, limit int) ([]repository.LeaderboardSnapshot, error) {
	args := m.Called(ctx, quizID, limit)
	return args.Get(0).([]repository.LeaderboardSnapshot), args.Error(1)
}

func sampleEntries() []domain.LeaderboardEntry {
	return []domain.LeaderboardEntry{
		{ParticipantID: uuid.New(), DisplayName: "ann", TotalScore: 250, CorrectAnswers: 2, TotalQuestions: 2},
		{ParticipantID: uuid.New(), DisplayName: "ben", TotalScore: 100, CorrectAnswers: 1, TotalQuestions: 2},
		{ParticipantID: uuid.New(), DisplayName: "cat", TotalScore: 100, CorrectAnswers: 1, TotalQuestions: 2},
	}
}

func TestRankSharesTies(t *testing.T) {
	ranked := Rank(sampleEntries())
	require.Len(t, ranked, 3)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 2, ranked[2].Rank)
	assert.Equal(t, "cat", ranked[2].DisplayName)
}

func TestServiceStoreWithoutSnapshots(t *testing.T) {
	svc := NewService(memory.NewLeaderboardStore(), nil, zerolog.Nop(), ServiceOptions{})
	quizID := uuid.New()
	finishedAt := time.Now()

	require.NoError(t, svc.Store(context.Background(), quizID, sampleEntries(), finishedAt))
	assert.Nil(t, svc.Jobs())

	got, ok, err := svc.Load(context.Background(), quizID, finishedAt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, got, 3)

	_, ok, err = svc.Load(context.Background(), uuid.New(), finishedAt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceLoadFallsBackToSnapshot(t *testing.T) {
	snaps := new(mockSnapshots)
	svc := NewService(memory.NewLeaderboardStore(), snaps, zerolog.Nop(), ServiceOptions{})
	quizID := uuid.New()
	finishedAt := time.Date(2026, 3, 1, 12, 0, 30, 123456789, time.UTC)

	data, err := json.Marshal(sampleEntries())
	require.NoError(t, err)
	snaps.On("LatestSnapshot", mock.Anything, quizID).Return(repository.LeaderboardSnapshot{
		QuizID:      quizID,
		GeneratedAt: finishedAt.Truncate(time.Microsecond),
		Entries:     data,
	}, nil)

	got, ok, err := svc.Load(context.Background(), quizID, finishedAt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ann", got[0].DisplayName)

	// A later run of the same quiz must not see the earlier run's standings.
	_, ok, err = svc.Load(context.Background(), quizID, finishedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	missing := uuid.New()
	snaps.On("LatestSnapshot", mock.Anything, missing).Return(repository.LeaderboardSnapshot{}, domain.ErrNotFound)
	_, ok, err = svc.Load(context.Background(), missing, finishedAt)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingCache struct {
	*memory.LeaderboardStore
}

func (failingCache) Store(context.Context, uuid.UUID, []domain.LeaderboardEntry) error {
	return errors.New("redis unavailable")
}

func TestServiceStoreQueuesSnapshotWhenCacheFails(t *testing.T) {
	svc := NewService(failingCache{memory.NewLeaderboardStore()}, new(mockSnapshots), zerolog.Nop(), ServiceOptions{QueueSize: 1})
	quizID := uuid.New()
	finishedAt := time.Date(2026, 3, 1, 12, 0, 30, 0, time.FixedZone("CET", 3600))

	err := svc.Store(context.Background(), quizID, sampleEntries(), finishedAt)
	require.Error(t, err)

	select {
	case job := <-svc.Jobs():
		assert.Equal(t, quizID, job.QuizID)
		assert.Equal(t, time.UTC, job.GeneratedAt.Location())
		assert.True(t, job.GeneratedAt.Equal(finishedAt))
	default:
		t.Fatal("snapshot job was not queued")
	}
}

func TestSnapshotWorkerPersistsQueuedJobs(t *testing.T) {
	snaps := new(mockSnapshots)
	svc := NewService(memory.NewLeaderboardStore(), snaps, zerolog.Nop(), ServiceOptions{QueueSize: 4})
	quizID := uuid.New()

	persisted := make(chan repository.LeaderboardSnapshot, 1)
	snaps.On("InsertSnapshot", mock.Anything, mock.MatchedBy(func(s repository.LeaderboardSnapshot) bool {
		return s.QuizID == quizID
	})).Run(func(args mock.Arguments) {
		persisted <- args.Get(1).(repository.LeaderboardSnapshot)
	}).Return(true, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewSnapshotWorker(svc, zerolog.Nop()).Run(ctx) }()

	require.NoError(t, svc.Store(ctx, quizID, sampleEntries(), time.Now()))

	select {
	case snap := <-persisted:
		assert.Len(t, snap.SourceHash, 64)
		var entries []domain.LeaderboardEntry
		require.NoError(t, json.Unmarshal(snap.Entries, &entries))
		assert.Len(t, entries, 3)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot was not persisted")
	}
}

func TestHandleHistory(t *testing.T) {
	snaps := new(mockSnapshots)
	svc := NewService(memory.NewLeaderboardStore(), snaps, zerolog.Nop(), ServiceOptions{})
	handler := NewHTTPHandler(svc, zerolog.Nop())
	quizID := uuid.New()

	data, err := json.Marshal(sampleEntries())
	require.NoError(t, err)
	snaps.On("ListSnapshots", mock.Anything, quizID, 3).
		Return([]repository.LeaderboardSnapshot{{ID: 9, QuizID: quizID, Entries: data, SourceHash: "h"}}, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/quizzes/{id}/leaderboard/history", handler.HandleHistory)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quizzes/"+quizID.String()+"/leaderboard/history?limit=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Snapshots []snapshotResponse `json:"snapshots"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Snapshots, 1)
	assert.Equal(t, int64(9), body.Snapshots[0].ID)
	assert.Equal(t, 2, body.Snapshots[0].Entries[2].Rank)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quizzes/nope/leaderboard/history", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
