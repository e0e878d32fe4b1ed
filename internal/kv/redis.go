package kv

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis[T any] struct {
	client *redis.Client
	prefix string
}

// NewRedis stores values as JSON under prefix+key.
func NewRedis[T any](client *redis.Client, prefix string) *Redis[T] {
	p := strings.TrimSpace(prefix)
	if p == "" {
		p = "sellerdesk:kv:"
	}
	return &Redis[T]{client: client, prefix: p}
}

func (s *Redis[T]) key(k string) string {
	return s.prefix + k
}

func (s *Redis[T]) Set(ctx context.Context, key string, v T, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), payload, ttl).Err()
}

func (s *Redis[T]) Get(ctx context.Context, key string) (*T, error) {
	return s.decode(s.client.Get(ctx, s.key(key)).Result())
}

func (s *Redis[T]) Take(ctx context.Context, key string) (*T, error) {
	return s.decode(s.client.GetDel(ctx, s.key(key)).Result())
}

func (s *Redis[T]) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *Redis[T]) decode(val string, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(val), &v); err != nil {
		return nil, err
	}
	return &v, nil
}
