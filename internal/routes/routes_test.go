package routes

import (
	"net/http"
	"net/url"
	"testing"
)

func TestTableEndpoint(t *testing.T) {
	ep, err := Default.Endpoint(SettingsThirdPartyAnalytics)
	if err != nil {
		t.Fatalf("endpoint error: %v", err)
	}
	if ep.Method != http.MethodPut || ep.Path != "/settings/third-party-analytics" {
		t.Fatalf("unexpected endpoint: %+v", ep)
	}
	if ep.Name != SettingsThirdPartyAnalytics {
		t.Fatalf("expected name to be filled, got %q", ep.Name)
	}

	if _, err := Default.Endpoint("nope"); err == nil {
		t.Fatal("expected error for unknown route")
	}
}

func TestEndpointURLDropsEmptyValues(t *testing.T) {
	ep := Default.MustEndpoint(Signup)
	if got := ep.URL(url.Values{"next": {""}}); got != "/signup" {
		t.Fatalf("unexpected url: %s", got)
	}
	if got := ep.URL(url.Values{"next": {"/settings"}}); got != "/signup?next=%2Fsettings" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     "/dashboard",
		"/settings/advanced":   "/settings/advanced",
		"https://evil.example": "/dashboard",
		"//evil.example/path":  "/dashboard",
		"/\\evil.example":      "/dashboard",
		"relative/path":        "/dashboard",
		"/products?tab=1":      "/products?tab=1",
	}
	for in, want := range cases {
		if got := SafeNext(in, "/dashboard"); got != want {
			t.Fatalf("SafeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
