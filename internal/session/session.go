package session

import (
	"context"
	"errors"
	"time"

	"github.com/PabloPavan/sellerdesk/internal"
	"github.com/PabloPavan/sellerdesk/internal/kv"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// DefaultRedisPrefix namespaces session keys in Redis.
const DefaultRedisPrefix = "sellerdesk:session:"

// DefaultCookieName is used when CookieConfig.Name is empty.
const DefaultCookieName = "sellerdesk_session"

type Session struct {
	ID              string    `json:"id"`
	SellerID        string    `json:"seller_id"`
	Role            string    `json:"role"`
	CSRFToken       string    `json:"csrf_token"`
	CreatedAt       time.Time `json:"created_at"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type Store = kv.Store[Session]

func NewMemoryStore() Store {
	return kv.NewMemory[Session]()
}

func NewRedisStore(client *redis.Client, prefix string) Store {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return kv.NewRedis[Session](client, prefix)
}

var errNoStore = errors.New("session store not configured")

// Manager issues and refreshes sessions. Sessions slide by TTL on refresh
// but never outlive MaxAge from creation.
type Manager struct {
	Store         Store
	TTL           time.Duration
	MaxAge        time.Duration
	RefreshBefore time.Duration
	IDBytes       int
	Now           func() time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Create stores a new session with a fresh CSRF token.
func (m *Manager) Create(ctx context.Context, sellerID, role string) (*Session, error) {
	if m.Store == nil {
		return nil, errNoStore
	}
	idBytes := m.IDBytes
	if idBytes <= 0 {
		idBytes = 32
	}

	now := m.now()
	s := Session{
		ID:              "ses_" + internal.RandomHex(idBytes),
		SellerID:        sellerID,
		Role:            role,
		CSRFToken:       internal.RandomHex(16),
		CreatedAt:       now,
		LastRefreshedAt: now,
	}
	s.ExpiresAt = m.deadline(&s, now)

	if err := m.Store.Set(ctx, s.ID, s, s.ExpiresAt.Sub(now)); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get loads a live session. Expired sessions are deleted and reported as
// ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if m.Store == nil {
		return nil, errNoStore
	}
	sess, err := m.Store.Get(ctx, id)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	now := m.now()
	m.backfill(sess, now)
	if m.pastMaxAge(sess, now) || now.After(sess.ExpiresAt) {
		_ = m.Store.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return sess, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	if m.Store == nil {
		return errNoStore
	}
	return m.Store.Delete(ctx, id)
}

// Refresh extends sess when it is within RefreshBefore of expiring (always,
// when RefreshBefore is zero). The bool reports whether it was extended.
func (m *Manager) Refresh(ctx context.Context, sess *Session) (*Session, bool, error) {
	if m.Store == nil {
		return nil, false, errNoStore
	}
	if sess == nil {
		return nil, false, errors.New("session not provided")
	}
	if m.TTL <= 0 {
		return sess, false, nil
	}

	now := m.now()
	m.backfill(sess, now)
	if m.pastMaxAge(sess, now) {
		_ = m.Store.Delete(ctx, sess.ID)
		return nil, false, ErrNotFound
	}
	if m.RefreshBefore > 0 && sess.ExpiresAt.Sub(now) > m.RefreshBefore {
		return sess, false, nil
	}

	next := m.deadline(sess, now)
	if !next.After(sess.ExpiresAt) {
		return sess, false, nil
	}
	sess.ExpiresAt = next
	sess.LastRefreshedAt = now

	if err := m.Store.Set(ctx, sess.ID, *sess, next.Sub(now)); err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// deadline is now+TTL, capped at CreatedAt+MaxAge.
func (m *Manager) deadline(sess *Session, now time.Time) time.Time {
	exp := now.Add(m.TTL)
	if m.MaxAge > 0 {
		if limit := sess.CreatedAt.Add(m.MaxAge); exp.After(limit) {
			exp = limit
		}
	}
	return exp
}

func (m *Manager) pastMaxAge(sess *Session, now time.Time) bool {
	return m.MaxAge > 0 && now.After(sess.CreatedAt.Add(m.MaxAge))
}

// backfill fills timestamps missing from sessions stored without them.
func (m *Manager) backfill(sess *Session, now time.Time) {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
		if m.TTL > 0 && !sess.ExpiresAt.IsZero() {
			if created := sess.ExpiresAt.Add(-m.TTL); created.Before(now) {
				sess.CreatedAt = created
			}
		}
	}
	if sess.LastRefreshedAt.IsZero() {
		sess.LastRefreshedAt = sess.CreatedAt
	}
}
