package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Telegram delivers updates at least once: webhook deliveries are retried
// until acknowledged and overlapping polls can return the same batch. The
// marker below keeps one short-lived key per processed update id so a
// redelivery is recognized and skipped. No call or room state is stored.

const processedTTL = 10 * time.Minute

type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(addr, password string, db int) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStorage{client: client}, nil
}

// MarkProcessed records updateID as handled and reports whether this was
// the first time it was seen.
func (r *RedisStorage) MarkProcessed(ctx context.Context, updateID int) (bool, error) {
	key := fmt.Sprintf("update:seen:%d", updateID)
	first, err := r.client.SetNX(ctx, key, 1, processedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark update %d: %w", updateID, err)
	}
	return first, nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
