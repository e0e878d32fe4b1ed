package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

// PoolOptions overrides the pool defaults. Zero fields keep the default.
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	ApplicationName string
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	return NewWithOptions(ctx, databaseURL, PoolOptions{})
}

// NewWithOptions opens a pool and pings it once.
func NewWithOptions(ctx context.Context, databaseURL string, opts PoolOptions) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = pick(opts.MaxConns, 10)
	cfg.MinConns = pick(opts.MinConns, 1)
	cfg.MaxConnLifetime = pick(opts.MaxConnLifetime, 30*time.Minute)
	cfg.HealthCheckPeriod = 30 * time.Second
	if opts.ApplicationName != "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = opts.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func pick[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func (db *DB) Close() {
	db.Pool.Close()
}

const (
	sqlMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	sqlMigrationApplied = `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`
	sqlMigrationRecord  = `INSERT INTO schema_migrations (version) VALUES ($1)`
)

// Migrate applies the .sql files in fsys in name order, each in its own
// transaction, skipping the ones already recorded. It returns the versions
// it applied.
func (db *DB) Migrate(ctx context.Context, fsys fs.FS) ([]string, error) {
	q := Instrument(db.Pool)
	if _, err := q.Exec(ctx, sqlMigrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	base := NewBase(db.Pool, time.Minute)
	var applied []string
	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")

		var done bool
		if err := q.QueryRow(ctx, sqlMigrationApplied, version).Scan(&done); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", version, err)
		}
		if done {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		err = base.WithTx(ctx, func(ctx context.Context, tx Queryer) error {
			if _, err := tx.Exec(ctx, string(script)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, sqlMigrationRecord, version)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", version, err)
		}
		applied = append(applied, version)
	}
	return applied, nil
}
