package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"calbot/internal/domain/entities"
	"calbot/internal/ports/output"
)

// RedisKey is the single key holding the serialized collection.
const RedisKey = "calendar_events"

var _ output.EventStorage = (*RedisStorage)(nil)

// RedisStorage keeps the collection as one JSON string under RedisKey.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// NewRedisStorageFromURL parses a redis:// URL and builds the client.
func NewRedisStorageFromURL(url string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("storage: parse REDIS_URL: %w", err)
	}
	return NewRedisStorage(redis.NewClient(opts)), nil
}

func (s *RedisStorage) Read(ctx context.Context) []entities.Event {
	val, err := s.client.Get(ctx, RedisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []entities.Event{}
	}
	if err != nil {
		log.Printf("❌ Lecture des événements (redis): %v", err)
		return []entities.Event{}
	}
	return decodeEvents(val, "redis")
}

func (s *RedisStorage) Write(ctx context.Context, events []entities.Event) error {
	data, err := encodeEvents(events)
	if err != nil {
		return fmt.Errorf("storage: encode events: %w", err)
	}
	if err := s.client.Set(ctx, RedisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis set %s: %w", RedisKey, err)
	}
	return nil
}

func (s *RedisStorage) Available(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
