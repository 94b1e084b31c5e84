package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

func TestSessionStoreCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	sess := &domain.QuizSession{ID: uuid.New(), Phase: domain.PhaseWaiting, Version: 1}
	require.NoError(t, store.Create(ctx, sess))

	next := sess.Clone()
	next.Phase = domain.PhaseActive
	next.Version = 2
	require.NoError(t, store.CompareAndSwap(ctx, next, 1))

	stale := sess.Clone()
	stale.Version = 2
	assert.ErrorIs(t, store.CompareAndSwap(ctx, stale, 1), domain.ErrVersionConflict)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseActive, got.Phase)

	_, err = store.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	sess := &domain.QuizSession{ID: uuid.New(), Participants: []uuid.UUID{uuid.New()}}
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	got.Participants[0] = uuid.Nil

	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, again.Participants[0])
}

func TestAnswerLedgerSwapReplaces(t *testing.T) {
	ctx := context.Background()
	ledger := NewAnswerLedger()
	quizID, questionID, participantID := uuid.New(), uuid.New(), uuid.New()

	got, err := ledger.Get(ctx, quizID, questionID, participantID)
	require.NoError(t, err)
	assert.Nil(t, got)

	first := domain.Answer{QuizID: quizID, QuestionID: questionID, ParticipantID: participantID, SelectedOption: 0}
	prev, err := ledger.Swap(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, prev)

	second := first
	second.SelectedOption = 2
	prev, err = ledger.Swap(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 0, prev.SelectedOption)

	got, err = ledger.Get(ctx, quizID, questionID, participantID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.SelectedOption)

	count, err := ledger.CountForQuestion(ctx, quizID, questionID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	all, err := ledger.ListByQuiz(ctx, quizID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].SelectedOption)

	require.NoError(t, ledger.Remove(ctx, quizID, questionID, participantID))
	count, err = ledger.CountForQuestion(ctx, quizID, questionID)
	require.NoError(t, err)
	assert.Zero(t, count)
	require.NoError(t, ledger.Remove(ctx, quizID, questionID, participantID))

	_, err = ledger.Swap(ctx, second)
	require.NoError(t, err)
	require.NoError(t, ledger.DeleteByQuiz(ctx, quizID))
	all, err = ledger.ListByQuiz(ctx, quizID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParticipantStoreIncrementIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewParticipantStore()
	quizID, id := uuid.New(), uuid.New()
	require.NoError(t, store.Upsert(ctx, domain.Participant{ID: id, QuizID: quizID, DisplayName: "ann", JoinedAt: time.Now()}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.IncrementScore(ctx, quizID, id, 3)
		}()
	}
	wg.Wait()

	p, err := store.Get(ctx, quizID, id)
	require.NoError(t, err)
	assert.Equal(t, 150, p.Score)

	// upsert keeps the score and refreshes the name
	require.NoError(t, store.Upsert(ctx, domain.Participant{ID: id, QuizID: quizID, DisplayName: "anne"}))
	p, err = store.Get(ctx, quizID, id)
	require.NoError(t, err)
	assert.Equal(t, 150, p.Score)
	assert.Equal(t, "anne", p.DisplayName)

	require.NoError(t, store.ResetScores(ctx, quizID))
	p, err = store.Get(ctx, quizID, id)
	require.NoError(t, err)
	assert.Zero(t, p.Score)

	_, err = store.IncrementScore(ctx, quizID, uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestLockerSerialises(t *testing.T) {
	locker := NewLocker()
	quizID := uuid.New()

	unlock, err := locker.Lock(context.Background(), quizID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, quizID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// other quizzes are independent
	other, err := locker.Lock(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, other())

	require.NoError(t, unlock())
	require.NoError(t, unlock())
	again, err := locker.Lock(context.Background(), quizID)
	require.NoError(t, err)
	require.NoError(t, again())
}

type countingBackend struct {
	*QuestionStore
	mu    sync.Mutex
	calls int
}

func (b *countingBackend) GetQuestions(ctx context.Context, ids []uuid.UUID) ([]domain.Question, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	return b.QuestionStore.GetQuestions(ctx, ids)
}

func TestQuestionCacheLoadsOnce(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{QuestionStore: NewQuestionStore()}
	q := domain.Question{ID: uuid.New(), Text: "?", Options: []string{"a", "b"}, TimeLimitSeconds: 10}
	require.NoError(t, backend.QuestionStore.SaveQuestions(ctx, []domain.Question{q}))

	cache := NewQuestionCache(backend)
	for i := 0; i < 3; i++ {
		got, err := cache.GetQuestions(ctx, []uuid.UUID{q.ID})
		require.NoError(t, err)
		assert.Equal(t, q, got[0])
	}
	assert.Equal(t, 1, backend.calls)

	_, err := cache.GetQuestions(ctx, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}
