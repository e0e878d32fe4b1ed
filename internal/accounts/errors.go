package accounts

import (
	"errors"

	"github.com/PabloPavan/sellerdesk/internal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound   = internal.ErrNotFound
	ErrCountrySet = errors.New("country already set")
)

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}

func IsUniqueViolationEmail(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	if pgErr.Code != "23505" { // unique_violation
		return false
	}
	return pgErr.ConstraintName == "accounts_email_key" || pgErr.ColumnName == "email"
}
