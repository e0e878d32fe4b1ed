package accounts

import (
	"context"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/db"
)

type Repository struct {
	base *db.Base
}

func NewRepository(base *db.Base) *Repository {
	return &Repository{base: base}
}

const accountColumns = `id, email, password_hash, role, two_factor_enabled, country,
		blocked_customer_emails, custom_domain, notification_endpoint, created_at`

const (
	sqlAccountInsert = `INSERT INTO accounts (id, email, password_hash, role, two_factor_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	sqlAccountGetByEmail = `SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1`

	sqlAccountGetByID = `SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1`

	sqlAccountUpdatePassword = `UPDATE accounts
		SET password_hash = $2
		WHERE id = $1`

	sqlAccountSetCountry = `UPDATE accounts
		SET country = $2
		WHERE id = $1 AND country IS NULL`

	sqlAccountExists = `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`

	sqlAccountDelete = `DELETE FROM accounts WHERE id = $1`

	sqlAccountUpdateAdvanced = `UPDATE accounts
		SET blocked_customer_emails = $2, custom_domain = $3, notification_endpoint = $4
		WHERE id = $1`
)

func (r *Repository) Create(ctx context.Context, a *Account) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	role := a.Role
	if !role.Valid() {
		role = RoleSeller
	}
	a.Role = role

	err := r.base.Q().QueryRow(ctx, sqlAccountInsert,
		a.ID, a.Email, a.PasswordHash, string(role), a.TwoFactorEnabled,
	).Scan(&a.CreatedAt)
	if IsUniqueViolationEmail(err) {
		return apperrors.Wrap(apperrors.KindConflict, "an account with this email already exists", err)
	}
	return err
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()
	return scanAccount(r.base.Q().QueryRow(ctx, sqlAccountGetByEmail, email))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Account, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()
	return scanAccount(r.base.Q().QueryRow(ctx, sqlAccountGetByID, id))
}

func (r *Repository) UpdatePassword(ctx context.Context, id, hash string) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlAccountUpdatePassword, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCountry stores country only when none is set yet. It returns
// ErrCountrySet when the account already has one.
func (r *Repository) SetCountry(ctx context.Context, id, country string) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlAccountSetCountry, id, country)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.base.Q().QueryRow(ctx, sqlAccountExists, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrCountrySet
}

func (r *Repository) UpdateAdvanced(ctx context.Context, id string, adv Advanced) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlAccountUpdateAdvanced,
		id, adv.BlockedCustomerEmails, adv.CustomDomain, adv.NotificationEndpoint,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlAccountDelete, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var a Account
	var role string
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&role,
		&a.TwoFactorEnabled,
		&a.Country,
		&a.Advanced.BlockedCustomerEmails,
		&a.Advanced.CustomDomain,
		&a.Advanced.NotificationEndpoint,
		&a.CreatedAt,
	)
	if IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Role = Role(role)
	return &a, nil
}
