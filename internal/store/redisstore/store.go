package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Options tunes key layout and expiry.
type Options struct {
	KeyPrefix string
	// SessionTTL bounds how long a quiz's keys live after their last write. Zero keeps them.
	SessionTTL time.Duration
}

type keyspace struct {
	prefix string
	ttl    time.Duration
}

func newKeyspace(opts Options) keyspace {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "livequiz"
	}
	return keyspace{prefix: prefix, ttl: opts.SessionTTL}
}

func (k keyspace) session(quizID uuid.UUID) string {
	return fmt.Sprintf("%s:quiz:%s:session", k.prefix, quizID.String())
}

func (k keyspace) question(questionID uuid.UUID) string {
	return fmt.Sprintf("%s:question:%s", k.prefix, questionID.String())
}

func (k keyspace) answers(quizID, questionID uuid.UUID) string {
	return fmt.Sprintf("%s:quiz:%s:answers:%s", k.prefix, quizID.String(), questionID.String())
}

// answerIndex lists every answers hash written for a quiz.
func (k keyspace) answerIndex(quizID uuid.UUID) string {
	return fmt.Sprintf("%s:quiz:%s:answers", k.prefix, quizID.String())
}

func (k keyspace) participants(quizID uuid.UUID) string {
	return fmt.Sprintf("%s:quiz:%s:participants", k.prefix, quizID.String())
}

func (k keyspace) scores(quizID uuid.UUID) string {
	return fmt.Sprintf("%s:quiz:%s:scores", k.prefix, quizID.String())
}

func (k keyspace) lock(quizID uuid.UUID) string {
	return fmt.Sprintf("%s:quiz:%s:lock", k.prefix, quizID.String())
}

func (k keyspace) leaderboard(quizID uuid.UUID) string {
	return fmt.Sprintf("%s:quiz:%s:leaderboard", k.prefix, quizID.String())
}

func (k keyspace) expire(ctx context.Context, pipe redis.Pipeliner, keys ...string) {
	if k.ttl <= 0 {
		return
	}
	for _, key := range keys {
		pipe.Expire(ctx, key, k.ttl)
	}
}
