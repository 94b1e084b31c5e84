package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/livequiz/internal/domain"
)

// swapScript replaces one answer and returns the previous value, in one round trip.
var swapScript = redis.NewScript(`
local prev = redis.call("HGET", KEYS[1], ARGV[1])
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
redis.call("SADD", KEYS[2], KEYS[1])
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call("EXPIRE", KEYS[1], ttl)
	redis.call("EXPIRE", KEYS[2], ttl)
end
return prev
`)

// AnswerLedger stores one hash per (quiz, question) keyed by participant.
type AnswerLedger struct {
	redis *redis.Client
	keys  keyspace
}

func NewAnswerLedger(client *redis.Client, opts Options) *AnswerLedger {
	return &AnswerLedger{redis: client, keys: newKeyspace(opts)}
}

func (l *AnswerLedger) Get(ctx context.Context, quizID, questionID, participantID uuid.UUID) (*domain.Answer, error) {
	data, err := l.redis.HGet(ctx, l.keys.answers(quizID, questionID), participantID.String()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get answer: %w", err)
	}

	var answer domain.Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, fmt.Errorf("unmarshal answer: %w", err)
	}
	return &answer, nil
}

func (l *AnswerLedger) Swap(ctx context.Context, answer domain.Answer) (*domain.Answer, error) {
	data, err := json.Marshal(answer)
	if err != nil {
		return nil, fmt.Errorf("marshal answer: %w", err)
	}

	keys := []string{l.keys.answers(answer.QuizID, answer.QuestionID), l.keys.answerIndex(answer.QuizID)}
	ttl := strconv.Itoa(int(l.keys.ttl.Seconds()))

	prev, err := swapScript.Run(ctx, l.redis, keys, answer.ParticipantID.String(), data, ttl).Text()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("swap answer: %w", err)
	}

	var old domain.Answer
	if err := json.Unmarshal([]byte(prev), &old); err != nil {
		return nil, fmt.Errorf("unmarshal answer: %w", err)
	}
	return &old, nil
}

func (l *AnswerLedger) Remove(ctx context.Context, quizID, questionID, participantID uuid.UUID) error {
	if err := l.redis.HDel(ctx, l.keys.answers(quizID, questionID), participantID.String()).Err(); err != nil {
		return fmt.Errorf("remove answer: %w", err)
	}
	return nil
}

func (l *AnswerLedger) CountForQuestion(ctx context.Context, quizID, questionID uuid.UUID) (int, error) {
	n, err := l.redis.HLen(ctx, l.keys.answers(quizID, questionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return int(n), nil
}

func (l *AnswerLedger) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]domain.Answer, error) {
	hashes, err := l.redis.SMembers(ctx, l.keys.answerIndex(quizID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list answer keys: %w", err)
	}

	var out []domain.Answer
	for _, key := range hashes {
		values, err := l.redis.HVals(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("list answers: %w", err)
		}
		for _, raw := range values {
			var a domain.Answer
			if err := json.Unmarshal([]byte(raw), &a); err != nil {
				return nil, fmt.Errorf("unmarshal answer: %w", err)
			}
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (l *AnswerLedger) DeleteByQuiz(ctx context.Context, quizID uuid.UUID) error {
	index := l.keys.answerIndex(quizID)
	hashes, err := l.redis.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("list answer keys: %w", err)
	}
	if err := l.redis.Del(ctx, append(hashes, index)...).Err(); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	return nil
}
