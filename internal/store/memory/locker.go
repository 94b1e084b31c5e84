package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Locker is a per-quiz mutex for single-instance deployments.
type Locker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]chan struct{}
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[uuid.UUID]chan struct{})}
}

// Lock blocks until the quiz lock is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, quizID uuid.UUID) (func() error, error) {
	l.mu.Lock()
	ch, ok := l.locks[quizID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[quizID] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() error {
		once.Do(func() { <-ch })
		return nil
	}, nil
}
