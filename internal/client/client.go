package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/routes"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// CSRFHeader carries the session's CSRF token on mutating requests.
const CSRFHeader = "X-CSRF-Token"

const (
	defaultBaseURL   = "http://127.0.0.1:8080"
	defaultUserAgent = "sellerdesk-cli/0.1"
	requestTimeout   = 15 * time.Second
	maxErrorBody     = 64 << 10
)

var _ form.Sender = (*Client)(nil)

// Client talks to the sellerdesk HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	jar       http.CookieJar
	routes    routes.Resolver
	userAgent string
	csrfToken string
	twoFactor string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is replaced by
// the client's own jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithRoutes(r routes.Resolver) Option {
	return func(c *Client) {
		if r != nil {
			c.routes = r
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for baseURL (scheme optional).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		jar:       jar,
		routes:    routes.Default,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Jar = jar
	return c, nil
}

func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Endpoint resolves a named route.
func (c *Client) Endpoint(name string) (routes.Endpoint, error) {
	return c.routes.Endpoint(name)
}

func (c *Client) CSRFToken() string { return c.csrfToken }

func (c *Client) SetCSRFToken(token string) { c.csrfToken = strings.TrimSpace(token) }

// PendingTwoFactor is the challenge id of a login waiting for its token.
func (c *Client) PendingTwoFactor() string { return c.twoFactor }

func (c *Client) SetPendingTwoFactor(id string) { c.twoFactor = strings.TrimSpace(id) }

// Send issues one request to ep with body encoded as JSON and decodes a
// successful response into dest. dest may be nil. Non-2xx responses are
// returned as *apperrors.Error.
func (c *Client) Send(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}

	ctx, span := telemetry.StartSpan(ctx, "client.send",
		attribute.String("http.method", ep.Method),
		attribute.String("http.route", ep.Path),
	)
	err := c.send(ctx, ep, body, dest)
	telemetry.EndSpan(span, err)
	return err
}

// Get is Send without a body.
func (c *Client) Get(ctx context.Context, name string, dest any) error {
	ep, err := c.Endpoint(name)
	if err != nil {
		return err
	}
	return c.Send(ctx, ep, nil, dest)
}

// Call resolves name and sends body to it.
func (c *Client) Call(ctx context.Context, name string, body any, dest any) error {
	ep, err := c.Endpoint(name)
	if err != nil {
		return err
	}
	return c.Send(ctx, ep, body, dest)
}

func (c *Client) send(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}
	rel, err := url.Parse(ep.Path)
	if err != nil {
		return fmt.Errorf("parse path %q: %w", ep.Path, err)
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.csrfToken != "" && method != http.MethodGet && method != http.MethodHead {
		req.Header.Set(CSRFHeader, c.csrfToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, form.GenericErrorMessage, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if token := strings.TrimSpace(resp.Header.Get(CSRFHeader)); token != "" {
		c.csrfToken = token
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
