package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gokatarajesh/livequiz/internal/db/postgres"
	"github.com/gokatarajesh/livequiz/internal/domain"
)

// QuestionRepository is the durable question catalog.
type QuestionRepository struct {
	db postgres.DBTX
}

func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetQuestions loads questions in the order of ids.
func (r *QuestionRepository) GetQuestions(ctx context.Context, ids []uuid.UUID) ([]domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, text, options, correct_option, time_limit_seconds
		FROM questions
		WHERE id = ANY($1::uuid[])
	`

	rows, err := r.db.Query(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]domain.Question, len(ids))
	for rows.Next() {
		var (
			q  domain.Question
			id string
		)
		if err := rows.Scan(&id, &q.Text, &q.Options, &q.CorrectOption, &q.TimeLimitSeconds); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse question id: %w", err)
		}
		byID[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	out := make([]domain.Question, len(ids))
	for i, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, domain.ErrQuestionNotFound
		}
		out[i] = q
	}
	return out, nil
}

// SaveQuestions upserts each question.
func (r *QuestionRepository) SaveQuestions(ctx context.Context, questions []domain.Question) error {
	query := `
		INSERT INTO questions (id, text, options, correct_option, time_limit_seconds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			options = EXCLUDED.options,
			correct_option = EXCLUDED.correct_option,
			time_limit_seconds = EXCLUDED.time_limit_seconds
	`
	for _, q := range questions {
		if _, err := r.db.Exec(ctx, query, q.ID.String(), q.Text, q.Options, q.CorrectOption, q.TimeLimitSeconds); err != nil {
			return fmt.Errorf("save question %s: %w", q.ID, err)
		}
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
