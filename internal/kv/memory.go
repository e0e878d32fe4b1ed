package kv

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e memoryEntry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type Memory[T any] struct {
	mu    sync.RWMutex
	items map[string]memoryEntry[T]
	now   func() time.Time
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{
		items: make(map[string]memoryEntry[T]),
		now:   time.Now,
	}
}

func (m *Memory[T]) Set(_ context.Context, key string, v T, ttl time.Duration) error {
	e := memoryEntry[T]{value: v}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = e
	return nil
}

func (m *Memory[T]) Get(_ context.Context, key string) (*T, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if e.expired(m.now()) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	v := e.value
	return &v, nil
}

func (m *Memory[T]) Take(_ context.Context, key string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.items, key)
	if e.expired(m.now()) {
		return nil, ErrNotFound
	}
	v := e.value
	return &v, nil
}

func (m *Memory[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
