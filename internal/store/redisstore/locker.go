package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when the quiz lock could not be taken within the wait budget.
var ErrLockTimeout = errors.New("quiz lock wait exceeded")

// unlockScript deletes the lock only when we still own it.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// LockOptions bounds lock lifetime and acquisition.
type LockOptions struct {
	TTL          time.Duration
	Wait         time.Duration
	PollInterval time.Duration
}

// Locker is a SETNX lock shared by every instance talking to the same Redis.
type Locker struct {
	redis *redis.Client
	keys  keyspace
	opts  LockOptions
}

func NewLocker(client *redis.Client, keyOpts Options, opts LockOptions) *Locker {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.Wait <= 0 {
		opts.Wait = 5 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Millisecond
	}
	return &Locker{redis: client, keys: newKeyspace(keyOpts), opts: opts}
}

// Lock acquires the quiz lock, polling until Wait elapses or ctx is done.
func (l *Locker) Lock(ctx context.Context, quizID uuid.UUID) (func() error, error) {
	key := l.keys.lock(quizID)
	token := uuid.New().String()
	deadline := time.Now().Add(l.opts.Wait)

	for {
		acquired, err := l.redis.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.opts.PollInterval):
		}
	}

	unlock := func() error {
		// the caller's context may already be cancelled; release regardless
		return unlockScript.Run(context.Background(), l.redis, []string{key}, token).Err()
	}
	return unlock, nil
}
