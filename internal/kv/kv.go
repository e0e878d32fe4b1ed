// Package kv holds short-lived JSON values keyed by string, in memory or in
// Redis. Sessions, two-factor challenges and password reset tokens live here.
package kv

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kv: key not found")

type Store[T any] interface {
	Set(ctx context.Context, key string, v T, ttl time.Duration) error
	Get(ctx context.Context, key string) (*T, error)
	// Take returns the value and removes it in one step.
	Take(ctx context.Context, key string) (*T, error)
	Delete(ctx context.Context, key string) error
}
