package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/auth"
	"github.com/PabloPavan/sellerdesk/internal/identity"
	"github.com/PabloPavan/sellerdesk/internal/routes"
	"github.com/PabloPavan/sellerdesk/internal/session"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

// CSRFHeader carries the session CSRF token both ways.
const CSRFHeader = "X-CSRF-Token"

type AuthService interface {
	Login(ctx context.Context, input auth.LoginInput) (auth.LoginResult, error)
	VerifyTwoFactor(ctx context.Context, input auth.TwoFactorInput) (auth.LoginResult, error)
	ResendTwoFactor(ctx context.Context, challengeID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Logout(ctx context.Context, sessionID string) error
	AuthenticateSession(ctx context.Context, sessionID, csrfToken, method string) (auth.SessionInfo, bool, error)
}

type AuthHandler struct {
	Auth   AuthService
	Cookie session.CookieConfig
	Routes routes.Resolver
}

type RedirectResponse struct {
	RedirectLocation  string `json:"redirect_location"`
	TwoFactorRequired bool   `json:"two_factor_required,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Login Auth
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginDTO true "credentials"
// @Success 200 {object} RedirectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}

	ctx, span := telemetry.StartSpan(r.Context(), "auth.login")
	res, err := h.Auth.Login(ctx, auth.LoginInput{
		Identifier:        req.User.LoginIdentifier,
		Password:          req.User.Password,
		Next:              deref(req.Next),
		RecaptchaResponse: deref(req.RecaptchaResponse),
		ClientIP:          clientIP(r),
	})
	span.SetAttributes(attribute.Bool("auth.two_factor_required", res.TwoFactorRequired))
	telemetry.EndSpan(span, err)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	h.finishLogin(w, res)
}

// TwoFactor Auth
// @Summary Verify a two-factor token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body TwoFactorDTO true "token"
// @Success 200 {object} RedirectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /two-factor [post]
func (h *AuthHandler) TwoFactor(w http.ResponseWriter, r *http.Request) {
	var req TwoFactorDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}

	res, err := h.Auth.VerifyTwoFactor(r.Context(), auth.TwoFactorInput{
		ChallengeID: req.UserID,
		Token:       req.Token,
		Next:        deref(req.Next),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	h.finishLogin(w, res)
}

// ResendTwoFactor Auth
// @Summary Resend the two-factor token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResendTwoFactorDTO true "challenge"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /two-factor/resend [post]
func (h *AuthHandler) ResendTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req ResendTwoFactorDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}
	if err := h.Auth.ResendTwoFactor(r.Context(), req.UserID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// ForgotPassword Auth
// @Summary Send password reset instructions
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordDTO true "email"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}
	if err := h.Auth.ForgotPassword(r.Context(), req.User.Email); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// ResetPassword Auth
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordDTO true "token and password"
// @Success 200 {object} RedirectResponse
// @Failure 400 {object} ErrorResponse
// @Router /reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}
	if err := h.Auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RedirectResponse{RedirectLocation: h.path(routes.Login, "/login")})
}

// Logout Auth
// @Summary Log out
// @Tags auth
// @Produce json
// @Security SessionAuth
// @Param X-CSRF-Token header string true "csrf token"
// @Success 200 {object} RedirectResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := identity.SessionID(r.Context()); ok {
		if err := h.Auth.Logout(r.Context(), sessionID); err != nil {
			writeAppError(w, r, err)
			return
		}
	}
	h.Cookie.Clear(w)
	writeJSON(w, http.StatusOK, RedirectResponse{RedirectLocation: h.path(routes.Login, "/login")})
}

func (h *AuthHandler) finishLogin(w http.ResponseWriter, res auth.LoginResult) {
	if res.Session != nil {
		h.Cookie.Write(w, res.Session.ID, res.Session.ExpiresAt)
		w.Header().Set(CSRFHeader, res.Session.CSRFToken)
	}
	writeJSON(w, http.StatusOK, RedirectResponse{
		RedirectLocation:  res.RedirectLocation,
		TwoFactorRequired: res.TwoFactorRequired,
	})
}

func (h *AuthHandler) path(name, fallback string) string {
	if h.Routes == nil {
		return fallback
	}
	ep, err := h.Routes.Endpoint(name)
	if err != nil {
		return fallback
	}
	return ep.Path
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// clientIP relies on middleware.RealIP having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
