package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/pages"
)

// fakeAPI is a minimal sellerdesk server recording what the CLI sent.
type fakeAPI struct {
	mu        sync.Mutex
	twoFactor bool
	settings  analytics.Settings
	requests  map[string]map[string]any
	csrf      map[string]string
	country   *string
	expired   bool
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		settings: analytics.Settings{Snippets: []analytics.Snippet{
			{ID: analytics.StringPtr("snp_1"), Name: "existing", Location: analytics.LocationReceipt},
		}},
		requests: map[string]map[string]any{},
		csrf:     map[string]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(srv.Close)
	return api, srv
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	f.csrf[key] = r.Header.Get("X-CSRF-Token")
	raw := map[string]any{}
	var body bytes.Buffer
	_, _ = body.ReadFrom(r.Body)
	_ = json.Unmarshal(body.Bytes(), &raw)
	f.requests[key] = raw

	w.Header().Set("Content-Type", "application/json")
	switch key {
	case "POST /login":
		if f.twoFactor {
			_, _ = w.Write([]byte(`{"redirect_location":"/two-factor?user_id=tfa_9&next=%2Fdashboard","two_factor_required":true}`))
			return
		}
		f.issueSession(w)
	case "POST /two-factor":
		f.issueSession(w)
	case "GET /settings/third-party-analytics":
		_ = json.NewEncoder(w).Encode(f.page())
	case "PUT /settings/third-party-analytics":
		var req analytics.UpdateRequest
		_ = json.Unmarshal(body.Bytes(), &req)
		for i := range req.User.Snippets {
			if req.User.Snippets[i].ID == nil {
				req.User.Snippets[i].ID = analytics.StringPtr("snp_new")
			}
		}
		f.settings = req.User
		_ = json.NewEncoder(w).Encode(f.page())
	case "GET /settings/advanced":
		_, _ = w.Write([]byte(`{"settings":{"blocked_customer_emails":"","custom_domain":"","notification_endpoint":""},"domain_verification_status":null}`))
	case "GET /settings/payments/country":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"country":   f.country,
			"countries": map[string]string{"US": "United States", "CA": "Canada", "RU": "Russia (not supported)"},
		})
	case "POST /settings/payments/country":
		_, _ = w.Write([]byte(`{"success":true}`))
	case "POST /logout":
		if f.expired {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"kind":"unauthorized","error_message":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"redirect_location":"/login"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"kind":"not_found","error_message":"not found"}`))
	}
}

func (f *fakeAPI) issueSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "sellerdesk_session", Value: "ses_1", Path: "/"})
	w.Header().Set("X-CSRF-Token", "csrf_1")
	_, _ = w.Write([]byte(`{"redirect_location":"/dashboard"}`))
}

func (f *fakeAPI) page() pages.ThirdPartyAnalyticsData {
	return pages.ThirdPartyAnalyticsData{
		ThirdPartyAnalytics: f.settings.Clone(),
		Products:            []pages.Product{{Permalink: "course", Name: "Course"}},
		CanUpdate:           true,
	}
}

func (f *fakeAPI) request(key string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[key]
}

func (f *fakeAPI) csrfFor(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.csrf[key]
}

func (f *fakeAPI) snippets() []analytics.Snippet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings.Clone().Snippets
}

type cli struct {
	configPath string
}

func newCLI(t *testing.T, baseURL string) *cli {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := "base_url = \"" + baseURL + "\"\ncookie_file = \"" + filepath.Join(dir, "session.json") + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SELLERDESK_BASE_URL", "")
	return &cli{configPath: configPath}
}

func (c *cli) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", c.configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBlocklistSanitize(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := newCLI(t, srv.URL)

	out, err := c.run(t, "Bad@Example.com, b.ad+promo@example.com\nother@example.com", "blocklist", "sanitize")
	if err != nil {
		t.Fatalf("sanitize error: %v", err)
	}
	if out != "bad@example.com\nother@example.com\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLoginPersistsSessionAcrossCommands(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newCLI(t, srv.URL)

	if _, err := c.run(t, "", "login", "--email", "seller@example.com", "--password", "pass"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	user, _ := api.request("POST /login")["user"].(map[string]any)
	if user["login_identifier"] != "seller@example.com" || user["password"] != "pass" {
		t.Fatalf("unexpected login body: %v", api.request("POST /login"))
	}

	out, err := c.run(t, "", "-o", "json", "analytics", "add-snippet", "--name", "pixel", "--location", "all", "--product", "course")
	if err != nil {
		t.Fatalf("add-snippet error: %v", err)
	}
	if got := api.csrfFor("PUT /settings/third-party-analytics"); got != "csrf_1" {
		t.Fatalf("csrf not restored: %q", got)
	}

	sent, _ := api.request("PUT /settings/third-party-analytics")["user"].(map[string]any)
	snippets, _ := sent["snippets"].([]any)
	if len(snippets) != 2 {
		t.Fatalf("unexpected snippets sent: %v", sent["snippets"])
	}
	added, _ := snippets[1].(map[string]any)
	if added["id"] != nil || added["name"] != "pixel" || added["location"] != "all" || added["product"] != "course" {
		t.Fatalf("unexpected new snippet: %v", added)
	}

	var data pages.ThirdPartyAnalyticsData
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := data.ThirdPartyAnalytics.Snippets[1].Key(); got != "snp_new" {
		t.Fatalf("expected saved id in output, got %q", got)
	}
}

func TestTwoFactorUsesSavedChallenge(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.twoFactor = true
	c := newCLI(t, srv.URL)

	out, err := c.run(t, "", "-o", "json", "login", "--email", "seller@example.com", "--password", "pass")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if !strings.Contains(out, `"two_factor_required": true`) {
		t.Fatalf("unexpected login output: %s", out)
	}

	if _, err := c.run(t, "", "two-factor", "123456"); err != nil {
		t.Fatalf("two-factor error: %v", err)
	}
	body := api.request("POST /two-factor")
	if body["user_id"] != "tfa_9" || body["token"] != "123456" {
		t.Fatalf("unexpected two-factor body: %v", body)
	}

	if _, err := c.run(t, "", "two-factor", "resend"); err == nil {
		t.Fatal("expected resend to fail once the challenge is consumed")
	}
}

func TestEditAndRemoveSnippet(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newCLI(t, srv.URL)

	if _, err := c.run(t, "", "analytics", "edit-snippet", "snp_missing", "--name", "x"); err == nil {
		t.Fatal("expected unknown snippet error")
	}

	if _, err := c.run(t, "console.log(1)", "analytics", "edit-snippet", "snp_1", "--code-file", "-"); err != nil {
		t.Fatalf("edit error: %v", err)
	}
	saved := api.snippets()
	if saved[0].Code != "console.log(1)" {
		t.Fatalf("code not saved: %q", saved[0].Code)
	}
	if saved[0].Name != "existing" {
		t.Fatalf("untouched field changed: %+v", saved[0])
	}

	if _, err := c.run(t, "", "analytics", "remove-snippet", "snp_1"); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if got := api.snippets(); len(got) != 0 {
		t.Fatalf("snippet not removed: %+v", got)
	}
}

func TestCountrySet(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newCLI(t, srv.URL)

	_, err := c.run(t, "", "country", "set", "ca")
	if err == nil || ErrorText(err) != "Please confirm all of the statements above." {
		t.Fatalf("expected confirmation error, got %v", err)
	}

	if _, err := c.run(t, "", "country", "set", "RU", "--confirm"); err == nil {
		t.Fatal("expected unsupported country to be rejected")
	}

	if _, err := c.run(t, "", "country", "set", "ca", "--confirm"); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if api.request("POST /settings/payments/country")["country"] != "CA" {
		t.Fatalf("unexpected body: %v", api.request("POST /settings/payments/country"))
	}
}

func TestPingWithoutEndpoint(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := newCLI(t, srv.URL)

	_, err := c.run(t, "", "ping", "test")
	if err == nil || err.Error() != pages.MissingPingURLMessage {
		t.Fatalf("expected missing url error, got %v", err)
	}
}

func TestServerErrorMessageIsShown(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := newCLI(t, srv.URL)

	_, err := c.run(t, "", "forgot-password", "seller@example.com")
	if err == nil || ErrorText(err) != "not found" {
		t.Fatalf("expected server message, got %v", err)
	}
}

func TestLogoutForgetsExpiredSession(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newCLI(t, srv.URL)

	if _, err := c.run(t, "", "login", "--email", "seller@example.com", "--password", "pass"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	sessionFile := filepath.Join(filepath.Dir(c.configPath), "session.json")
	if _, err := os.Stat(sessionFile); err != nil {
		t.Fatalf("expected saved session: %v", err)
	}

	api.mu.Lock()
	api.expired = true
	api.mu.Unlock()

	if _, err := c.run(t, "", "logout"); err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if got := api.csrfFor("POST /logout"); got != "csrf_1" {
		t.Fatalf("logout sent without csrf: %q", got)
	}
	if _, err := os.Stat(sessionFile); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, got %v", err)
	}
}
