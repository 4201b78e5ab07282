package redisstore

// Package redisstore provides the Redis-backed durable key-value storage
// that mirrors the session (token, user, loginTime, role, name, email).

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/siwaris/portal-api/internal/ports"
)

const defaultPrefix = "siwaris:session:"

// Storage is a Redis-based ports.SessionStorage for production use.
type Storage struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.SessionStorage = (*Storage)(nil)

// NewStorage creates a Redis-backed storage with the default key prefix.
func NewStorage(client redis.UniversalClient) *Storage {
	return NewStorageWithPrefix(client, defaultPrefix)
}

// NewStorageWithPrefix creates a Redis-backed storage with a custom key prefix.
func NewStorageWithPrefix(client redis.UniversalClient, prefix string) *Storage {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Storage{client: client, prefix: prefix}
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrNotFound
	}
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("storage key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys in a single DEL so logout never leaves
// a partial session behind.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		prefixed = append(prefixed, s.prefix+k)
	}
	if len(prefixed) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
