package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PabloPavan/sellerdesk/internal/accounts"
	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/auth"
	"github.com/PabloPavan/sellerdesk/internal/identity"
	"github.com/PabloPavan/sellerdesk/internal/kv"
	"github.com/PabloPavan/sellerdesk/internal/payments"
	"github.com/PabloPavan/sellerdesk/internal/pings"
	"github.com/PabloPavan/sellerdesk/internal/routes"
	"github.com/PabloPavan/sellerdesk/internal/session"
)

type accountsStub struct {
	byEmail map[string]*accounts.Account
}

func (a *accountsStub) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	if acc, ok := a.byEmail[email]; ok {
		return acc, nil
	}
	return nil, accounts.ErrNotFound
}

func (a *accountsStub) GetByID(ctx context.Context, id string) (*accounts.Account, error) {
	for _, acc := range a.byEmail {
		if acc.ID == id {
			return acc, nil
		}
	}
	return nil, accounts.ErrNotFound
}

func (a *accountsStub) UpdatePassword(ctx context.Context, id, hash string) error {
	return nil
}

type analyticsStub struct {
	settings analytics.Settings
	updateFn func(ctx context.Context, req analytics.Settings) (*analytics.Settings, error)
}

func (a *analyticsStub) Get(ctx context.Context) (*analytics.Settings, error) {
	s := a.settings.Clone()
	return &s, nil
}

func (a *analyticsStub) Update(ctx context.Context, req analytics.Settings) (*analytics.Settings, error) {
	if a.updateFn != nil {
		return a.updateFn(ctx, req)
	}
	a.settings = req.Clone()
	return &req, nil
}

func (a *analyticsStub) Page(ctx context.Context, settings *analytics.Settings) (*analytics.Page, error) {
	return &analytics.Page{
		ThirdPartyAnalytics: settings.Clone(),
		Products:            []analytics.Product{},
		CanUpdate:           identity.CanUpdateSettings(ctx),
	}, nil
}

type advancedStub struct {
	updated *accounts.Advanced
}

func (a *advancedStub) Advanced(ctx context.Context) (*accounts.AdvancedPage, error) {
	return &accounts.AdvancedPage{}, nil
}

func (a *advancedStub) UpdateAdvanced(ctx context.Context, in accounts.Advanced) (*accounts.AdvancedPage, error) {
	a.updated = &in
	return &accounts.AdvancedPage{Settings: in}, nil
}

type paymentsStub struct {
	setFn func(ctx context.Context, code string) error
}

func (p *paymentsStub) Country(ctx context.Context) (*payments.CountryPage, error) {
	return &payments.CountryPage{Countries: map[string]string{"US": "United States"}}, nil
}

func (p *paymentsStub) SetCountry(ctx context.Context, code string) error {
	if p.setFn != nil {
		return p.setFn(ctx, code)
	}
	return nil
}

type pingsStub struct{}

func (pingsStub) Test(ctx context.Context, rawURL string) (pings.Result, error) {
	if rawURL == "" {
		return pings.Result{Success: false, ErrorMessage: pings.MissingURLMessage}, nil
	}
	return pings.Result{Success: true, Message: pings.SentMessage}, nil
}

type testApp struct {
	handler   http.Handler
	analytics *analyticsStub
	advanced  *advancedStub
	payments  *paymentsStub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	acc := &accounts.Account{ID: "sel_1", Email: "seller@example.com", PasswordHash: "hash", Role: accounts.RoleSeller}
	cookie := session.CookieConfig{Name: "sellerdesk_session"}
	authSvc := &auth.Service{
		Accounts:    &accountsStub{byEmail: map[string]*accounts.Account{acc.Email: acc}},
		Sessions:    &session.Manager{Store: session.NewMemoryStore(), TTL: time.Hour},
		Challenges:  kv.NewMemory[auth.Challenge](),
		ResetTokens: kv.NewMemory[auth.ResetToken](),
		Routes:      routes.Default,
		PasswordVerifier: func(hashed, plain string) bool {
			return hashed == "hash" && plain == "pass"
		},
	}

	ta := &testApp{
		analytics: &analyticsStub{settings: analytics.Settings{Snippets: []analytics.Snippet{}}},
		advanced:  &advancedStub{},
		payments:  &paymentsStub{},
	}
	ta.handler = NewRouter(&App{
		Routes:   routes.Default,
		Cookie:   cookie,
		Health:   &HealthHandler{},
		Auth:     &AuthHandler{Auth: authSvc, Cookie: cookie, Routes: routes.Default},
		Settings: &SettingsHandler{Analytics: ta.analytics, Advanced: ta.advanced},
		Payments: &PaymentsHandler{Payments: ta.payments},
		Pings:    &PingsHandler{Pings: pingsStub{}},
	})
	return ta
}

func (ta *testApp) do(t *testing.T, method, path string, body any, cookies []*http.Cookie, csrf string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if csrf != "" {
		req.Header.Set(CSRFHeader, csrf)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	return rec
}

func (ta *testApp) login(t *testing.T) ([]*http.Cookie, string) {
	t.Helper()
	rec := ta.do(t, http.MethodPost, "/login", map[string]any{
		"user": map[string]string{"login_identifier": "seller@example.com", "password": "pass"},
		"next": "/settings/advanced",
	}, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	return rec.Result().Cookies(), rec.Header().Get(CSRFHeader)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestLoginIssuesSessionAndCSRF(t *testing.T) {
	ta := newTestApp(t)
	rec := ta.do(t, http.MethodPost, "/login", map[string]any{
		"user": map[string]string{"login_identifier": "seller@example.com", "password": "pass"},
		"next": "/settings/advanced",
	}, nil, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var body RedirectResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body.RedirectLocation != "/settings/advanced" || body.TwoFactorRequired {
		t.Fatalf("unexpected body %+v", body)
	}
	if rec.Header().Get(CSRFHeader) == "" {
		t.Fatal("expected csrf header")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sellerdesk_session" {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
}

func TestLoginValidation(t *testing.T) {
	ta := newTestApp(t)
	rec := ta.do(t, http.MethodPost, "/login", map[string]any{
		"user": map[string]string{"login_identifier": "not-an-email", "password": "pass"},
	}, nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Success || body.Kind != string(apperrors.KindInvalidInput) || body.ErrorMessage != "Please enter a valid email address." {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestLoginInvalidJSON(t *testing.T) {
	ta := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ta := newTestApp(t)
	rec := ta.do(t, http.MethodPost, "/login", map[string]any{
		"user": map[string]string{"login_identifier": "seller@example.com", "password": "nope"},
	}, nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if body := decodeError(t, rec); body.ErrorMessage != auth.InvalidCredentialsMessage {
		t.Fatalf("unexpected message %q", body.ErrorMessage)
	}
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	ta := newTestApp(t)
	rec := ta.do(t, http.MethodGet, "/settings/third-party-analytics", nil, nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestProtectedWriteRequiresCSRF(t *testing.T) {
	ta := newTestApp(t)
	cookies, _ := ta.login(t)

	rec := ta.do(t, http.MethodPut, "/settings/advanced", map[string]any{"user": map[string]string{}}, cookies, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestUpdateAdvanced(t *testing.T) {
	ta := newTestApp(t)
	cookies, csrf := ta.login(t)

	rec := ta.do(t, http.MethodPut, "/settings/advanced", map[string]any{"user": map[string]string{
		"blocked_customer_emails": "a@example.com",
		"custom_domain":           "shop.example.com",
		"notification_endpoint":   "https://hooks.example.com/ping",
	}}, cookies, csrf)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if ta.advanced.updated == nil || ta.advanced.updated.CustomDomain != "shop.example.com" {
		t.Fatalf("unexpected update %+v", ta.advanced.updated)
	}
}

func TestUpdateAdvancedRejectsBadEndpoint(t *testing.T) {
	ta := newTestApp(t)
	cookies, csrf := ta.login(t)

	rec := ta.do(t, http.MethodPut, "/settings/advanced", map[string]any{"user": map[string]string{
		"notification_endpoint": "not a url",
	}}, cookies, csrf)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ta.advanced.updated != nil {
		t.Fatal("service must not be called on invalid input")
	}
}

func TestThirdPartyAnalyticsRoundTrip(t *testing.T) {
	ta := newTestApp(t)
	cookies, csrf := ta.login(t)

	rec := ta.do(t, http.MethodPut, "/settings/third-party-analytics", map[string]any{"user": map[string]any{
		"google_analytics_id": "G-1",
		"snippets":            []map[string]any{{"id": nil, "name": "Pixel", "location": "receipt", "code": "<script/>", "product": nil}},
	}}, cookies, csrf)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	rec = ta.do(t, http.MethodGet, "/settings/third-party-analytics", nil, cookies, "")
	var page analytics.Page
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if !page.CanUpdate || page.ThirdPartyAnalytics.GoogleAnalyticsID != "G-1" || len(page.ThirdPartyAnalytics.Snippets) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestSetCountryConflict(t *testing.T) {
	ta := newTestApp(t)
	ta.payments.setFn = func(ctx context.Context, code string) error {
		return apperrors.New(apperrors.KindConflict, payments.CountryLockedMessage)
	}
	cookies, csrf := ta.login(t)

	rec := ta.do(t, http.MethodPost, "/settings/payments/country", map[string]string{"country": "US"}, cookies, csrf)
	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if body := decodeError(t, rec); body.ErrorMessage != payments.CountryLockedMessage {
		t.Fatalf("unexpected message %q", body.ErrorMessage)
	}
}

func TestTestPing(t *testing.T) {
	ta := newTestApp(t)
	cookies, csrf := ta.login(t)

	rec := ta.do(t, http.MethodPost, "/test-pings", map[string]string{"url": "https://hooks.example.com"}, cookies, csrf)
	var res pings.Result
	_ = json.NewDecoder(rec.Body).Decode(&res)
	if rec.Code != http.StatusOK || !res.Success {
		t.Fatalf("unexpected response %d %+v", rec.Code, res)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	ta := newTestApp(t)
	cookies, csrf := ta.login(t)

	rec := ta.do(t, http.MethodPost, "/logout", nil, cookies, csrf)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	rec = ta.do(t, http.MethodGet, "/settings/advanced", nil, cookies, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected session to be gone, got %d", rec.Code)
	}
}

func TestLogoutRequiresCSRF(t *testing.T) {
	ta := newTestApp(t)
	cookies, _ := ta.login(t)

	rec := ta.do(t, http.MethodPost, "/logout", nil, cookies, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf, got %d", rec.Code)
	}
	rec = ta.do(t, http.MethodGet, "/settings/advanced", nil, cookies, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("session should survive a rejected logout, got %d", rec.Code)
	}
}

func TestWriteAppErrorRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAppError(rec, nil, apperrors.RateLimit("slow down", 1500*time.Millisecond))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("unexpected Retry-After %q", got)
	}
}

func TestStatusFromKind(t *testing.T) {
	cases := map[apperrors.Kind]int{
		apperrors.KindInvalidInput:      http.StatusBadRequest,
		apperrors.KindTwoFactorRequired: http.StatusUnauthorized,
		apperrors.KindUnavailable:       http.StatusServiceUnavailable,
		apperrors.KindInternal:          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := statusFromKind(kind); got != want {
			t.Fatalf("%s: got %d want %d", kind, got, want)
		}
	}
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t)
	rec := ta.do(t, http.MethodGet, "/health", nil, nil, "")
	var body HealthResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if rec.Code != http.StatusOK || body.DB != "disabled" {
		t.Fatalf("unexpected health %d %+v", rec.Code, body)
	}
}
