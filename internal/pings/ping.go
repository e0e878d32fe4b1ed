// Package pings delivers sale notifications to seller endpoints. Only the
// test ping triggered from the advanced settings page lives here.
package pings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/identity"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

const (
	DefaultTimeout = 5 * time.Second

	MissingURLMessage = "Please provide a URL to send a test ping to."
	InvalidURLMessage = "Please provide a valid http or https URL."
	SentMessage       = "Your test ping was sent successfully. Check your endpoint to confirm it arrived."
)

// Result is the body answered to the settings page.
type Result struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Sale is the sample payload posted by a test ping.
type Sale struct {
	SaleID        string `json:"sale_id"`
	SaleTimestamp string `json:"sale_timestamp"`
	OrderNumber   int64  `json:"order_number"`
	SellerID      string `json:"seller_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Permalink     string `json:"permalink"`
	Email         string `json:"email"`
	Price         int    `json:"price"`
	Currency      string `json:"currency"`
	Quantity      int    `json:"quantity"`
	Test          string `json:"test"`
}

type Service struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
	Now        func() time.Time
	NewID      func() string
}

// Test posts a sample sale to rawURL. Delivery problems are reported in the
// Result rather than as errors.
func (s *Service) Test(ctx context.Context, rawURL string) (Result, error) {
	sellerID, ok := identity.SellerID(ctx)
	if !ok {
		return Result{}, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}

	target := strings.TrimSpace(rawURL)
	if target == "" {
		return failure(ctx, MissingURLMessage), nil
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return failure(ctx, InvalidURLMessage), nil
	}

	payload, err := json.Marshal(s.sample(sellerID))
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.KindInternal, "failed to build ping", err)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "pings.test",
		attribute.String("seller.id", sellerID),
		attribute.String("ping.host", u.Host),
	)
	status, err := s.post(ctx, u.String(), payload)
	telemetry.EndSpan(span, err)
	if err != nil {
		telemetry.LogWarn(ctx, "test ping failed",
			telemetry.LogString("event", "pings.test.failed"),
			telemetry.LogString("ping.host", u.Host),
			telemetry.LogErr(err),
		)
		return failure(ctx, fmt.Sprintf("Sorry, we could not reach %s.", u.Host)), nil
	}
	if status < 200 || status > 299 {
		return failure(ctx, fmt.Sprintf("Your endpoint responded with HTTP %d.", status)), nil
	}

	telemetry.RecordTestPing(ctx, true)
	return Result{Success: true, Message: SentMessage}, nil
}

func (s *Service) post(ctx context.Context, target string, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	ua := s.UserAgent
	if ua == "" {
		ua = "sellerdesk-ping"
	}
	req.Header.Set("User-Agent", ua)

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

func (s *Service) sample(sellerID string) Sale {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	ts := now().UTC()
	return Sale{
		SaleID:        newID(),
		SaleTimestamp: ts.Format(time.RFC3339),
		OrderNumber:   ts.Unix(),
		SellerID:      sellerID,
		ProductID:     "test-product",
		ProductName:   "Test product",
		Permalink:     "test",
		Email:         "customer@example.com",
		Price:         100,
		Currency:      "usd",
		Quantity:      1,
		Test:          "true",
	}
}

func failure(ctx context.Context, msg string) Result {
	telemetry.RecordTestPing(ctx, false)
	return Result{Success: false, ErrorMessage: msg}
}
