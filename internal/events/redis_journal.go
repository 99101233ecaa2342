package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisJournal appends envelopes to a capped Redis list that downstream
// consumers read in order.
type RedisJournal struct {
	redis  *redis.Client
	key    string
	maxLen int64
	tracer trace.Tracer
}

// NewRedisJournal returns nil when no client is given.
func NewRedisJournal(client *redis.Client, key string, maxLen int64) *RedisJournal {
	if client == nil {
		return nil
	}
	if key == "" {
		key = "appointments:events"
	}
	return &RedisJournal{
		redis:  client,
		key:    key,
		maxLen: maxLen,
		tracer: otel.Tracer("material_scheduler.internal.events.redis_journal"),
	}
}

func (j *RedisJournal) Publish(ctx context.Context, env Envelope) error {
	if j == nil || j.redis == nil {
		return errors.New("events: redis journal not configured")
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}

	ctx, span := j.tracer.Start(ctx, "events.redis_journal.publish")
	defer span.End()

	pipe := j.redis.TxPipeline()
	pipe.RPush(ctx, j.key, data)
	if j.maxLen > 0 {
		pipe.LTrim(ctx, j.key, -j.maxLen, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("events: append to journal: %w", err)
	}
	return nil
}

// List returns up to limit of the most recent envelopes, oldest first.
func (j *RedisJournal) List(ctx context.Context, limit int64) ([]Envelope, error) {
	if j == nil || j.redis == nil {
		return nil, nil
	}
	ctx, span := j.tracer.Start(ctx, "events.redis_journal.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}
	raw, err := j.redis.LRange(ctx, j.key, start, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Envelope{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("events: read journal: %w", err)
	}

	out := make([]Envelope, 0, len(raw))
	for _, item := range raw {
		var env Envelope
		if err := json.Unmarshal([]byte(item), &env); err != nil {
			return nil, fmt.Errorf("events: decode journal entry: %w", err)
		}
		out = append(out, env)
	}
	return out, nil
}

var _ Publisher = (*RedisJournal)(nil)
