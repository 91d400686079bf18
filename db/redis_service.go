package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"reschool-widgets/config"
)

// RedisStore keeps widget snapshots in Redis, the store shared by the
// application process and every widget process
type RedisStore struct {
	Client *redis.Client
	Group  string // Prefix separating one app group's keys from another's
}

// NewRedisStore creates a new RedisStore instance
func NewRedisStore(client *redis.Client, group string) *RedisStore {
	return &RedisStore{
		Client: client,
		Group:  group,
	}
}

// Helper to generate the namespaced key
func (s *RedisStore) groupKey(key string) string {
	if s.Group == "" {
		return key
	}
	return s.Group + ":" + key
}

// Get returns the value stored under key, or ErrNotFound
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.Client.Get(ctx, s.groupKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}
	return value, nil
}

// Set overwrites the value stored under key
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.Client.Set(ctx, s.groupKey(key), value, 0).Err(); err != nil {
		log.Printf("Error saving key %s: %v", key, err)
		return fmt.Errorf("failed to save %s to Redis: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, s.groupKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from Redis: %w", key, err)
	}
	return nil
}

// --- Utility ---

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Ping Redis to check connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Printf("Successfully connected to Redis %s DB %d", cfg.Addr, cfg.DB)
	return rdb, nil
}
