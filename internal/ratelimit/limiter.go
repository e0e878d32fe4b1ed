package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces counters in Redis.
const DefaultPrefix = "sellerdesk:ratelimit:"

// Limiter is a fixed-window counter per key. A nil client allows everything.
type Limiter struct {
	Client *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
}

var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if current > tonumber(ARGV[1]) then
  local ttl = redis.call("PTTL", KEYS[1])
  return {0, ttl}
end
local ttl = redis.call("PTTL", KEYS[1])
return {1, ttl}
`)

func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.Client == nil {
		return true, 0, nil
	}

	limit := l.Limit
	if limit <= 0 {
		limit = 5
	}
	window := l.Window
	if window <= 0 {
		window = time.Minute
	}

	prefix := l.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	fullKey := prefix + key
	res, err := allowScript.Run(ctx, l.Client, []string{fullKey}, limit, window.Milliseconds()).Result()
	if err != nil {
		return false, 0, err
	}

	values, ok := res.([]any)
	if !ok || len(values) != 2 {
		return false, 0, redis.ErrClosed
	}

	allowed, _ := values[0].(int64)
	ttlMs, _ := values[1].(int64)

	return allowed == 1, time.Duration(ttlMs) * time.Millisecond, nil
}

// Check is Allow expressed as an error: a rate_limited apperror carrying the
// remaining window when the key is over its limit.
func (l *Limiter) Check(ctx context.Context, message string, keys ...string) error {
	if l == nil {
		return nil
	}
	for _, key := range keys {
		ok, retryAfter, err := l.Allow(ctx, key)
		if err != nil {
			return apperrors.Wrap(apperrors.KindUnavailable, "rate limiter unavailable", err)
		}
		if !ok {
			return apperrors.RateLimit(message, retryAfter)
		}
	}
	return nil
}

// Key joins parts into a limiter key, lowercasing and trimming each.
func Key(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		clean = append(clean, strings.ToLower(strings.TrimSpace(p)))
	}
	return strings.Join(clean, ":")
}
