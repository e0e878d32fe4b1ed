package client

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
)

// errorBody is the union of the error shapes the server answers with.
type errorBody struct {
	Kind         string `json:"kind"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
	Message      string `json:"message"`
}

func responseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	kind := kindFromStatus(resp.StatusCode)
	msg := ""

	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		if body.Kind != "" {
			kind = apperrors.Kind(body.Kind)
		}
		msg = firstNonEmpty(body.ErrorMessage, body.Error, body.Message)
	} else if !strings.HasPrefix(strings.TrimSpace(resp.Header.Get("Content-Type")), "text/html") {
		msg = strings.TrimSpace(string(raw))
	}

	appErr := apperrors.New(kind, msg)
	if kind == apperrors.KindRateLimited {
		appErr.RetryAfter = retryAfter(resp.Header.Get("Retry-After"))
	}
	return appErr
}

func kindFromStatus(status int) apperrors.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.KindInvalidInput
	case http.StatusUnauthorized:
		return apperrors.KindUnauthorized
	case http.StatusForbidden:
		return apperrors.KindForbidden
	case http.StatusNotFound:
		return apperrors.KindNotFound
	case http.StatusConflict:
		return apperrors.KindConflict
	case http.StatusTooManyRequests:
		return apperrors.KindRateLimited
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return apperrors.KindUnavailable
	default:
		return apperrors.KindInternal
	}
}

func retryAfter(v string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
