package analytics

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/PabloPavan/sellerdesk/internal"
)

var (
	ErrNotFound       = internal.ErrNotFound
	ErrUnknownSnippet = errors.New("snippet does not belong to seller")
)

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}

func IsUniqueViolationID(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" { // unique_violation
		return false
	}
	return pgErr.ConstraintName == "analytics_snippets_pkey" || pgErr.ColumnName == "id"
}
