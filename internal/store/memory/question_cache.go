package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// QuestionBackend is the durable catalog behind the cache.
type QuestionBackend interface {
	GetQuestions(ctx context.Context, ids []uuid.UUID) ([]domain.Question, error)
	SaveQuestions(ctx context.Context, questions []domain.Question) error
}

// QuestionCache keeps questions in process once loaded. Questions are immutable once a
// session references them, so entries never expire; concurrent misses share one load.
type QuestionCache struct {
	backend QuestionBackend
	sf      singleflight.Group

	mu    sync.RWMutex
	cache map[uuid.UUID]domain.Question
}

func NewQuestionCache(backend QuestionBackend) *QuestionCache {
	return &QuestionCache{
		backend: backend,
		cache:   make(map[uuid.UUID]domain.Question),
	}
}

func (c *QuestionCache) GetQuestions(ctx context.Context, ids []uuid.UUID) ([]domain.Question, error) {
	out := make([]domain.Question, len(ids))
	var missing []int

	c.mu.RLock()
	for i, id := range ids {
		if q, ok := c.cache[id]; ok {
			out[i] = q
		} else {
			missing = append(missing, i)
		}
	}
	c.mu.RUnlock()

	for _, i := range missing {
		id := ids[i]
		result, err, _ := c.sf.Do(id.String(), func() (interface{}, error) {
			c.mu.RLock()
			if q, ok := c.cache[id]; ok {
				c.mu.RUnlock()
				return q, nil
			}
			c.mu.RUnlock()

			loaded, err := c.backend.GetQuestions(ctx, []uuid.UUID{id})
			if err != nil {
				return domain.Question{}, err
			}
			if len(loaded) != 1 {
				return domain.Question{}, domain.ErrQuestionNotFound
			}

			c.mu.Lock()
			c.cache[id] = loaded[0]
			c.mu.Unlock()
			return loaded[0], nil
		})
		if err != nil {
			return nil, err
		}
		out[i] = result.(domain.Question)
	}
	return out, nil
}

func (c *QuestionCache) SaveQuestions(ctx context.Context, questions []domain.Question) error {
	if err := c.backend.SaveQuestions(ctx, questions); err != nil {
		return err
	}
	c.mu.Lock()
	for _, q := range questions {
		c.cache[q.ID] = q
	}
	c.mu.Unlock()
	return nil
}
