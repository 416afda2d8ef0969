package redis_repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const verdictKeyPrefix = "learnmap:reach:"

// RedisVerdictRepository keeps reachability verdicts as short-lived string keys.
type RedisVerdictRepository struct {
	client *redis.Client
}

func NewRedisVerdictRepository(client *redis.Client) *RedisVerdictRepository {
	return &RedisVerdictRepository{client: client}
}

func (r *RedisVerdictRepository) GetVerdict(ctx context.Context, fingerprint string) (bool, bool, error) {
	val, err := r.client.Get(ctx, verdictKeyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == "1", true, nil
}

func (r *RedisVerdictRepository) SaveVerdict(ctx context.Context, fingerprint string, reachable bool, ttl time.Duration) error {
	val := "0"
	if reachable {
		val = "1"
	}
	return r.client.Set(ctx, verdictKeyPrefix+fingerprint, val, ttl).Err()
}

func (r *RedisVerdictRepository) Close() error {
	return r.client.Close()
}
