package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Success      bool   `json:"success"`
	Kind         string `json:"kind"`
	ErrorMessage string `json:"error_message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.KindInternal, "", err)
	}

	if appErr.Kind == apperrors.KindRateLimited && appErr.RetryAfter > 0 {
		seconds := int(appErr.RetryAfter.Seconds())
		if seconds <= 0 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	status := statusFromKind(appErr.Kind)
	if status >= http.StatusInternalServerError && r != nil {
		telemetry.LogError(r.Context(), "request failed",
			telemetry.LogString("event", "http.error"),
			telemetry.LogString("error.kind", string(appErr.Kind)),
			telemetry.LogErr(err),
		)
	}

	writeJSON(w, status, ErrorResponse{
		Success:      false,
		Kind:         string(appErr.Kind),
		ErrorMessage: errorMessage(appErr),
	})
}

func statusFromKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized, apperrors.KindTwoFactorRequired:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	case apperrors.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(appErr *apperrors.Error) string {
	if appErr == nil {
		return "internal error"
	}
	if appErr.Message != "" {
		return appErr.Message
	}
	switch appErr.Kind {
	case apperrors.KindUnauthorized:
		return "unauthorized"
	case apperrors.KindTwoFactorRequired:
		return "two-factor authentication required"
	case apperrors.KindForbidden:
		return "forbidden"
	case apperrors.KindNotFound:
		return "not found"
	case apperrors.KindConflict:
		return "conflict"
	case apperrors.KindRateLimited:
		return "too many requests"
	case apperrors.KindInvalidInput:
		return "invalid request"
	case apperrors.KindUnavailable:
		return "service unavailable"
	default:
		return "internal error"
	}
}
