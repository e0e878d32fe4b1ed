package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PabloPavan/sellerdesk/internal"
	"github.com/PabloPavan/sellerdesk/internal/accounts"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/kv"
	"github.com/PabloPavan/sellerdesk/internal/ratelimit"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

const (
	InvalidResetTokenMessage = "That reset link is invalid or has expired."
	minPasswordLength        = 4
)

// ForgotPassword mails a reset token to the account registered under email.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if s.Accounts == nil || s.ResetTokens == nil {
		return apperrors.New(apperrors.KindInternal, "auth not configured")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return apperrors.New(apperrors.KindInvalidInput, "email is required")
	}

	if err := s.limit(ctx, ratelimit.Key("forgot_password", email)); err != nil {
		return err
	}

	acc, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if accounts.IsNotFound(err) {
			return apperrors.New(apperrors.KindNotFound, UnknownAccountMessage)
		}
		return apperrors.Wrap(apperrors.KindInternal, "failed to load account", err)
	}

	token := internal.RandomHex(20)
	if err := s.ResetTokens.Set(ctx, token, ResetToken{SellerID: acc.ID}, s.resetTTL()); err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "failed to store reset token", err)
	}
	if s.Mailer != nil {
		if err := s.Mailer.SendPasswordReset(ctx, acc.Email, token); err != nil {
			return apperrors.Wrap(apperrors.KindUnavailable, "failed to send the reset email", err)
		}
	}

	telemetry.LogInfo(ctx, "password reset requested",
		telemetry.LogString("event", "auth.password_reset.requested"),
		telemetry.LogString("seller.id", acc.ID),
	)
	return nil
}

// ResetPassword consumes token and stores password for its account. Tokens
// are single use.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if s.Accounts == nil || s.ResetTokens == nil {
		return apperrors.New(apperrors.KindInternal, "auth not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.New(apperrors.KindInvalidInput, InvalidResetTokenMessage)
	}
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return apperrors.New(apperrors.KindInvalidInput, "Please choose a longer password.")
	}

	rt, err := s.ResetTokens.Take(ctx, token)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return apperrors.New(apperrors.KindInvalidInput, InvalidResetTokenMessage)
		}
		return apperrors.Wrap(apperrors.KindUnavailable, "failed to load reset token", err)
	}

	hasher := s.PasswordHasher
	if hasher == nil {
		hasher = internal.DefaultPasswordHasher
	}
	hash, err := hasher(password)
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to process password", err)
	}

	if err := s.Accounts.UpdatePassword(ctx, rt.SellerID, hash); err != nil {
		if accounts.IsNotFound(err) {
			return apperrors.New(apperrors.KindInvalidInput, InvalidResetTokenMessage)
		}
		return apperrors.Wrap(apperrors.KindInternal, "failed to update password", err)
	}

	telemetry.LogInfo(ctx, "password reset completed",
		telemetry.LogString("event", "auth.password_reset.completed"),
		telemetry.LogString("seller.id", rt.SellerID),
	)
	return nil
}

func (s *Service) resetTTL() time.Duration {
	if s.ResetTTL > 0 {
		return s.ResetTTL
	}
	return DefaultResetTTL
}
