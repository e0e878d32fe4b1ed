package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/PabloPavan/sellerdesk/internal"
	"github.com/PabloPavan/sellerdesk/internal/accounts"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/kv"
	"github.com/PabloPavan/sellerdesk/internal/ratelimit"
	"github.com/PabloPavan/sellerdesk/internal/routes"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

const InvalidTokenMessage = "Invalid token, please try again."

type TwoFactorInput struct {
	ChallengeID string
	Token       string
	Next        string
}

// startTwoFactor stores a fresh challenge, mails its token and returns the
// two-factor page URL for it.
func (s *Service) startTwoFactor(ctx context.Context, acc *accounts.Account, next string) (string, error) {
	if s.Challenges == nil {
		return "", apperrors.New(apperrors.KindInternal, "two-factor store not configured")
	}

	id := "tfa_" + internal.RandomHex(16)
	ch := Challenge{
		SellerID:  acc.ID,
		Email:     acc.Email,
		Token:     internal.RandomDigits(6),
		Next:      next,
		ExpiresAt: time.Now().Add(s.twoFactorTTL()),
	}
	if err := s.Challenges.Set(ctx, id, ch, s.twoFactorTTL()); err != nil {
		return "", apperrors.Wrap(apperrors.KindUnavailable, "failed to start two-factor authentication", err)
	}
	if err := s.mailToken(ctx, ch); err != nil {
		return "", err
	}

	return s.url(routes.TwoFactorPage, "/two-factor", url.Values{
		"user_id": {id},
		"next":    {next},
	}), nil
}

func (s *Service) VerifyTwoFactor(ctx context.Context, input TwoFactorInput) (LoginResult, error) {
	if s.Challenges == nil || s.Accounts == nil || s.Sessions == nil {
		return LoginResult{}, apperrors.New(apperrors.KindInternal, "auth not configured")
	}
	id := strings.TrimSpace(input.ChallengeID)
	token := strings.TrimSpace(input.Token)
	if id == "" || token == "" {
		return LoginResult{}, apperrors.New(apperrors.KindInvalidInput, InvalidTokenMessage)
	}

	if err := s.limit(ctx, ratelimit.Key("two_factor", id)); err != nil {
		return LoginResult{}, err
	}

	// Take consumes the challenge so only one request can redeem it. A wrong
	// token puts it back for the rest of its lifetime.
	ch, err := s.Challenges.Take(ctx, id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return LoginResult{}, apperrors.New(apperrors.KindInvalidInput, InvalidTokenMessage)
		}
		return LoginResult{}, apperrors.Wrap(apperrors.KindUnavailable, "failed to load two-factor challenge", err)
	}
	if !tokensEqual(token, ch.Token) {
		telemetry.RecordLoginAttempt(ctx, "two_factor_invalid")
		if err := s.restoreChallenge(ctx, id, *ch); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{}, apperrors.New(apperrors.KindInvalidInput, InvalidTokenMessage)
	}

	acc, err := s.Accounts.GetByID(ctx, ch.SellerID)
	if err != nil {
		if accounts.IsNotFound(err) {
			return LoginResult{}, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
		}
		return LoginResult{}, apperrors.Wrap(apperrors.KindInternal, "failed to load account", err)
	}

	info, err := s.issueSession(ctx, acc)
	if err != nil {
		return LoginResult{}, err
	}

	next := ch.Next
	if strings.TrimSpace(input.Next) != "" {
		next = input.Next
	}
	telemetry.RecordLoginAttempt(ctx, "success")
	telemetry.LogInfo(ctx, "seller passed two-factor authentication",
		telemetry.LogString("event", "auth.two_factor.verified"),
		telemetry.LogString("seller.id", acc.ID),
	)
	return LoginResult{
		RedirectLocation: routes.SafeNext(next, s.path(routes.Dashboard, "/dashboard")),
		Session:          info,
	}, nil
}

// ResendTwoFactor replaces the challenge token and mails the new one.
func (s *Service) ResendTwoFactor(ctx context.Context, challengeID string) error {
	if s.Challenges == nil {
		return apperrors.New(apperrors.KindInternal, "two-factor store not configured")
	}
	id := strings.TrimSpace(challengeID)
	if id == "" {
		return apperrors.New(apperrors.KindInvalidInput, "user_id is required")
	}

	if err := s.limit(ctx, ratelimit.Key("two_factor_resend", id)); err != nil {
		return err
	}

	ch, err := s.Challenges.Get(ctx, id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return apperrors.New(apperrors.KindNotFound, "Your login attempt expired, please log in again.")
		}
		return apperrors.Wrap(apperrors.KindUnavailable, "failed to load two-factor challenge", err)
	}

	ch.Token = internal.RandomDigits(6)
	ch.ExpiresAt = time.Now().Add(s.twoFactorTTL())
	if err := s.Challenges.Set(ctx, id, *ch, s.twoFactorTTL()); err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "failed to store two-factor token", err)
	}
	return s.mailToken(ctx, *ch)
}

func (s *Service) restoreChallenge(ctx context.Context, id string, ch Challenge) error {
	ttl := s.twoFactorTTL()
	if !ch.ExpiresAt.IsZero() {
		ttl = time.Until(ch.ExpiresAt)
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.Challenges.Set(ctx, id, ch, ttl); err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "failed to store two-factor challenge", err)
	}
	return nil
}

func (s *Service) mailToken(ctx context.Context, ch Challenge) error {
	if s.Mailer == nil {
		return nil
	}
	if err := s.Mailer.SendTwoFactorToken(ctx, ch.Email, ch.Token); err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "failed to send the authentication token", err)
	}
	return nil
}

func (s *Service) twoFactorTTL() time.Duration {
	if s.TwoFactorTTL > 0 {
		return s.TwoFactorTTL
	}
	return DefaultTwoFactorTTL
}

func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
