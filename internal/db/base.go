package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 3 * time.Second

// Queryer is satisfied by a pool, a connection and a transaction.
type Queryer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Base is embedded by repositories: a pool, a per-call timeout and
// instrumented access to both.
type Base struct {
	pool    *pgxpool.Pool
	q       Queryer
	timeout time.Duration
}

func NewBase(pool *pgxpool.Pool, timeout time.Duration) *Base {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Base{pool: pool, q: Instrument(pool), timeout: timeout}
}

func (b *Base) Q() Queryer { return b.q }

// Instrument wraps q with query spans and metrics. Wrapping twice is a no-op.
func Instrument(q Queryer) Queryer {
	if iq, ok := q.(instrumentedQueryer); ok {
		return iq
	}
	return instrumentedQueryer{q: q}
}

func (b *Base) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

// WithTx runs fn in a read-committed transaction under the base timeout.
// An error from fn rolls the transaction back.
func (b *Base) WithTx(ctx context.Context, fn func(ctx context.Context, q Queryer) error) error {
	ctx, cancel := b.WithTimeout(ctx)
	defer cancel()

	return pgx.BeginTxFunc(ctx, b.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, Instrument(tx))
	})
}
