// Package redis persists documents in Redis.
package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"stockcount/pkg/kv"
)

// Storage persists documents as plain Redis strings without expiry.
type Storage struct {
	client *redis.Client
	prefix string
}

// New wraps client. Every key is stored as prefix+key.
func New(client *redis.Client, prefix string) *Storage {
	return &Storage{client: client, prefix: prefix}
}

// Open connects to the Redis server at addr and pings it.
func Open(ctx context.Context, addr, prefix string) (*Storage, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return New(client, prefix), nil
}

// Get retrieves a document by key.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", kv.ErrNotFound
	}
	return v, err
}

// Set replaces the document stored under key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// Close closes the client.
func (s *Storage) Close() error {
	return s.client.Close()
}
