package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const availabilityKeyPrefix = "availability:"

// RedisAdapter caches availability verdicts for the order service's
// pre-flight check. The check is best effort, so a short TTL is fine.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) GetAvailability(ctx context.Context, productID string) (bool, bool, error) {
	val, err := r.client.Get(ctx, availabilityKeyPrefix+productID).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == "1", true, nil
}

func (r *RedisAdapter) SetAvailability(ctx context.Context, productID string, available bool, ttl time.Duration) error {
	val := "0"
	if available {
		val = "1"
	}
	return r.client.Set(ctx, availabilityKeyPrefix+productID, val, ttl).Err()
}
