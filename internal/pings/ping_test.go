package pings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/identity"
)

func sellerCtx() context.Context {
	return identity.WithSeller(context.Background(), "sel_1", "seller")
}

func TestPingPostsSampleSale(t *testing.T) {
	var got Sale
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := &Service{
		Now:   func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
		NewID: func() string { return "sale-1" },
	}
	res, err := svc.Test(sellerCtx(), "  "+srv.URL+"/hook ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.Message != SentMessage {
		t.Fatalf("unexpected result %+v", res)
	}
	if got.Test != "true" || got.SellerID != "sel_1" || got.SaleID != "sale-1" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if got.SaleTimestamp != "2024-01-02T03:04:05Z" {
		t.Fatalf("unexpected timestamp %q", got.SaleTimestamp)
	}
}

func TestPingReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	res, err := (&Service{}).Test(sellerCtx(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || !strings.Contains(res.ErrorMessage, "502") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPingTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	res, err := (&Service{Timeout: 20 * time.Millisecond}).Test(sellerCtx(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || res.ErrorMessage == "" {
		t.Fatalf("expected failure, got %+v", res)
	}
}

func TestPingValidatesURL(t *testing.T) {
	svc := &Service{}
	cases := map[string]string{
		"":                   MissingURLMessage,
		"   ":                MissingURLMessage,
		"ftp://example.com":  InvalidURLMessage,
		"example.com/ping":   InvalidURLMessage,
		"https:///only-path": InvalidURLMessage,
	}
	for in, want := range cases {
		res, err := svc.Test(sellerCtx(), in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if res.Success || res.ErrorMessage != want {
			t.Fatalf("%q: got %+v, want %q", in, res, want)
		}
	}
}

func TestPingRequiresSeller(t *testing.T) {
	_, err := (&Service{}).Test(context.Background(), "https://example.com")
	if apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
