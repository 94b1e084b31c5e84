package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

func TestQuestionRepository_GetQuestionsKeepsRequestOrder(t *testing.T) {
	db := new(mockDB)
	repo := NewQuestionRepository(db)

	first, second := uuid.New(), uuid.New()
	rows := &fakeRows{rows: [][]any{
		{second.String(), "second?", []string{"a", "b"}, 1, 20},
		{first.String(), "first?", []string{"x", "y", "z"}, 0, 10},
	}}
	db.On("Query", mock.Anything, mock.Anything, []string{first.String(), second.String()}).Return(rows, nil)

	got, err := repo.GetQuestions(context.Background(), []uuid.UUID{first, second})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0].ID)
	assert.Equal(t, []string{"x", "y", "z"}, got[0].Options)
	assert.Equal(t, 20, got[1].TimeLimitSeconds)
	db.AssertExpectations(t)
}

func TestQuestionRepository_GetQuestionsMissing(t *testing.T) {
	db := new(mockDB)
	repo := NewQuestionRepository(db)

	db.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(&fakeRows{}, nil)

	_, err := repo.GetQuestions(context.Background(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestQuestionRepository_SaveQuestions(t *testing.T) {
	db := new(mockDB)
	repo := NewQuestionRepository(db)

	q := domain.Question{ID: uuid.New(), Text: "?", Options: []string{"a", "b"}, CorrectOption: 1, TimeLimitSeconds: 15}
	db.On("Exec", mock.Anything, mock.Anything, q.ID.String(), q.Text, q.Options, q.CorrectOption, q.TimeLimitSeconds).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	require.NoError(t, repo.SaveQuestions(context.Background(), []domain.Question{q}))
	db.AssertExpectations(t)
}

func TestQuestionRepository_SaveQuestionsError(t *testing.T) {
	db := new(mockDB)
	repo := NewQuestionRepository(db)

	boom := errors.New("boom")
	db.On("Exec", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(pgconn.CommandTag{}, boom)

	err := repo.SaveQuestions(context.Background(), []domain.Question{{ID: uuid.New()}})
	assert.ErrorIs(t, err, boom)
}
