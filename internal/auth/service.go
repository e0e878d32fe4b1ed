package auth

import (
	"context"
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
	"github.com/PabloPavan/sellerdesk/internal/session"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

const (
	InvalidCredentialsMessage = "Please try another password. The one you entered was incorrect."
	UnknownAccountMessage     = "An account does not exist with that email."
	RecaptchaFailedMessage    = "Sorry, we could not verify the CAPTCHA. Please try again."
	TooManyAttemptsMessage    = "Too many attempts. Please try again later."

	DefaultTwoFactorTTL = 10 * time.Minute
	DefaultResetTTL     = time.Hour
)

type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*accounts.Account, error)
	GetByID(ctx context.Context, id string) (*accounts.Account, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

type SessionManager interface {
	Create(ctx context.Context, sellerID, role string) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Refresh(ctx context.Context, sess *session.Session) (*session.Session, bool, error)
	Delete(ctx context.Context, id string) error
}

type RateLimiter interface {
	Check(ctx context.Context, message string, keys ...string) error
}

// RecaptchaVerifier checks a client's captcha response with the provider.
type RecaptchaVerifier interface {
	Verify(ctx context.Context, response, remoteIP string) error
}

// Mailer delivers account emails.
type Mailer interface {
	SendTwoFactorToken(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// Challenge is a pending two-factor login.
type Challenge struct {
	SellerID string `json:"seller_id"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	Next     string `json:"next"`
	// ExpiresAt lets a challenge be put back with its remaining lifetime.
	ExpiresAt time.Time `json:"expires_at"`
}

type ResetToken struct {
	SellerID string `json:"seller_id"`
}

type Service struct {
	Accounts         AccountStore
	Sessions         SessionManager
	LoginLimiter     RateLimiter
	Recaptcha        RecaptchaVerifier
	Mailer           Mailer
	Challenges       kv.Store[Challenge]
	ResetTokens      kv.Store[ResetToken]
	TwoFactorTTL     time.Duration
	ResetTTL         time.Duration
	Routes           routes.Resolver
	PasswordVerifier func(hashed, plain string) bool
	PasswordHasher   func(plain string) (string, error)
}

type LoginInput struct {
	Identifier        string
	Password          string
	Next              string
	RecaptchaResponse string
	ClientIP          string
}

type SessionInfo struct {
	ID        string
	SellerID  string
	Role      string
	CSRFToken string
	ExpiresAt time.Time
}

// LoginResult carries either a session or, when TwoFactorRequired, only the
// redirect to the two-factor page.
type LoginResult struct {
	RedirectLocation  string
	TwoFactorRequired bool
	Session           *SessionInfo
}

func (s *Service) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	if s.Accounts == nil || s.Sessions == nil {
		return LoginResult{}, apperrors.New(apperrors.KindInternal, "auth not configured")
	}

	email := strings.TrimSpace(strings.ToLower(input.Identifier))
	password := input.Password
	if email == "" || strings.TrimSpace(password) == "" {
		return LoginResult{}, apperrors.New(apperrors.KindInvalidInput, "email and password are required")
	}

	if s.Recaptcha != nil {
		if strings.TrimSpace(input.RecaptchaResponse) == "" {
			return LoginResult{}, apperrors.New(apperrors.KindInvalidInput, RecaptchaFailedMessage)
		}
		if err := s.Recaptcha.Verify(ctx, input.RecaptchaResponse, input.ClientIP); err != nil {
			return LoginResult{}, apperrors.Wrap(apperrors.KindInvalidInput, RecaptchaFailedMessage, err)
		}
	}

	if err := s.limit(ctx, ratelimit.Key("login", "ip", input.ClientIP), ratelimit.Key("login", "email", email)); err != nil {
		telemetry.RecordLoginAttempt(ctx, "rate_limited")
		return LoginResult{}, err
	}

	acc, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		telemetry.RecordLoginAttempt(ctx, "invalid")
		if accounts.IsNotFound(err) {
			return LoginResult{}, apperrors.New(apperrors.KindUnauthorized, UnknownAccountMessage)
		}
		return LoginResult{}, apperrors.Wrap(apperrors.KindInternal, "failed to load account", err)
	}

	if !s.verifyPassword(acc.PasswordHash, password) {
		telemetry.RecordLoginAttempt(ctx, "invalid")
		return LoginResult{}, apperrors.New(apperrors.KindUnauthorized, InvalidCredentialsMessage)
	}

	next := routes.SafeNext(input.Next, s.path(routes.Dashboard, "/dashboard"))

	if acc.TwoFactorEnabled {
		redirect, err := s.startTwoFactor(ctx, acc, next)
		if err != nil {
			return LoginResult{}, err
		}
		telemetry.RecordLoginAttempt(ctx, "two_factor")
		return LoginResult{RedirectLocation: redirect, TwoFactorRequired: true}, nil
	}

	info, err := s.issueSession(ctx, acc)
	if err != nil {
		return LoginResult{}, err
	}
	telemetry.RecordLoginAttempt(ctx, "success")
	telemetry.LogInfo(ctx, "seller logged in",
		telemetry.LogString("event", "auth.login"),
		telemetry.LogString("seller.id", acc.ID),
	)
	return LoginResult{RedirectLocation: next, Session: info}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if s.Sessions == nil {
		return apperrors.New(apperrors.KindInternal, "auth not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to logout", err)
	}
	return nil
}

func (s *Service) AuthenticateSession(ctx context.Context, sessionID, csrfToken, method string) (SessionInfo, bool, error) {
	if s.Sessions == nil {
		return SessionInfo{}, false, apperrors.New(apperrors.KindInternal, "auth not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return SessionInfo{}, false, apperrors.New(apperrors.KindUnauthorized, "missing session")
	}

	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return SessionInfo{}, false, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}

	if requiresCSRFToken(method) {
		if csrfToken == "" || !tokensEqual(csrfToken, sess.CSRFToken) {
			return SessionInfo{}, false, apperrors.New(apperrors.KindForbidden, "forbidden")
		}
	}

	sess, refreshed, err := s.Sessions.Refresh(ctx, sess)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return SessionInfo{}, false, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
		}
		return SessionInfo{}, false, apperrors.Wrap(apperrors.KindInternal, "failed to refresh session", err)
	}
	return sessionInfo(sess), refreshed, nil
}

func (s *Service) issueSession(ctx context.Context, acc *accounts.Account) (*SessionInfo, error) {
	sess, err := s.Sessions.Create(ctx, acc.ID, string(acc.Role))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create session", err)
	}
	info := sessionInfo(sess)
	return &info, nil
}

func (s *Service) limit(ctx context.Context, keys ...string) error {
	if s.LoginLimiter == nil {
		return nil
	}
	clean := keys[:0:0]
	for _, k := range keys {
		if !strings.HasSuffix(k, ":") {
			clean = append(clean, k)
		}
	}
	return s.LoginLimiter.Check(ctx, TooManyAttemptsMessage, clean...)
}

func (s *Service) verifyPassword(hash, plain string) bool {
	verify := s.PasswordVerifier
	if verify == nil {
		verify = internal.DefaultPasswordVerifier
	}
	return verify(hash, plain)
}

func (s *Service) path(name, fallback string) string {
	if s.Routes == nil {
		return fallback
	}
	ep, err := s.Routes.Endpoint(name)
	if err != nil {
		return fallback
	}
	return ep.Path
}

func (s *Service) url(name, fallback string, query url.Values) string {
	if s.Routes == nil {
		return routes.Endpoint{Path: fallback}.URL(query)
	}
	ep, err := s.Routes.Endpoint(name)
	if err != nil {
		ep = routes.Endpoint{Path: fallback}
	}
	return ep.URL(query)
}

func sessionInfo(sess *session.Session) SessionInfo {
	return SessionInfo{
		ID:        sess.ID,
		SellerID:  sess.SellerID,
		Role:      sess.Role,
		CSRFToken: sess.CSRFToken,
		ExpiresAt: sess.ExpiresAt,
	}
}

func requiresCSRFToken(method string) bool {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return false
	default:
		return true
	}
}
