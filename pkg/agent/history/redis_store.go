package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "agentic:history:"

// RedisStore keeps each conversation in a Redis list trimmed to MaxEntries on
// every append.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) redisKey(key Key) string {
	return redisKeyPrefix + key.String()
}

func (s *RedisStore) Append(ctx context.Context, key Key, exchange Exchange) error {
	data, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("marshal exchange: %w", err)
	}

	k := s.redisKey(key)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, k, data)
	pipe.LTrim(ctx, k, -MaxEntries, -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history %s: %w", k, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, key Key) ([]Exchange, error) {
	raw, err := s.client.LRange(ctx, s.redisKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]Exchange, 0, len(raw))
	for _, item := range raw {
		var e Exchange
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context, key Key) (bool, error) {
	n, err := s.client.Del(ctx, s.redisKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("clear history: %w", err)
	}
	return n > 0, nil
}
