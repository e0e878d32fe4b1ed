package httpapi

import (
	"context"
	"net/http"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/auth"
	"github.com/PabloPavan/sellerdesk/internal/identity"
	"github.com/PabloPavan/sellerdesk/internal/session"
)

type Authenticator interface {
	AuthenticateSession(ctx context.Context, sessionID, csrfToken, method string) (auth.SessionInfo, bool, error)
}

// SessionMiddleware admits requests carrying a valid session cookie and, for
// unsafe methods, the matching CSRF header. Refreshed sessions get a new
// cookie.
func SessionMiddleware(authenticator Authenticator, cookie session.CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authenticator == nil {
				writeAppError(w, r, apperrors.New(apperrors.KindInternal, "auth not configured"))
				return
			}

			sess, refreshed, err := authenticator.AuthenticateSession(r.Context(), cookie.Read(r), r.Header.Get(CSRFHeader), r.Method)
			if err != nil {
				writeAppError(w, r, err)
				return
			}

			if refreshed {
				cookie.Write(w, sess.ID, sess.ExpiresAt)
			}
			w.Header().Set(CSRFHeader, sess.CSRFToken)

			ctx := identity.WithSeller(r.Context(), sess.SellerID, sess.Role)
			ctx = identity.WithSession(ctx, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
