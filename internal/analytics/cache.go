package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, sellerID string) (*Settings, bool, error)
	Set(ctx context.Context, sellerID string, s *Settings, ttl time.Duration) error
	Delete(ctx context.Context, sellerID string) error
}

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	p := strings.TrimSpace(prefix)
	if p == "" {
		p = "sellerdesk:cache:"
	}
	return &RedisCache{client: client, prefix: p}
}

func (c *RedisCache) key(sellerID string) string {
	return c.prefix + "third_party_analytics:" + sellerID
}

func (c *RedisCache) Get(ctx context.Context, sellerID string) (*Settings, bool, error) {
	val, err := c.client.Get(ctx, c.key(sellerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var s Settings
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (c *RedisCache) Set(ctx context.Context, sellerID string, s *Settings, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(sellerID), payload, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, sellerID string) error {
	return c.client.Del(ctx, c.key(sellerID)).Err()
}
