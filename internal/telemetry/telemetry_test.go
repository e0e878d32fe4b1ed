package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	otelLog "go.opentelemetry.io/otel/log"
)

func TestSeverityForStatus(t *testing.T) {
	cases := []struct {
		status int
		want   otelLog.Severity
	}{
		{http.StatusOK, otelLog.SeverityInfo},
		{http.StatusFound, otelLog.SeverityInfo},
		{http.StatusBadRequest, otelLog.SeverityWarn},
		{http.StatusTooManyRequests, otelLog.SeverityWarn},
		{http.StatusInternalServerError, otelLog.SeverityError},
	}
	for _, tc := range cases {
		if got := severityForStatus(tc.status); got != tc.want {
			t.Fatalf("severityForStatus(%d) = %v, want %v", tc.status, got, tc.want)
		}
	}
	if severityText(otelLog.SeverityWarn) != "WARN" {
		t.Fatal("unexpected severity text for warn")
	}
}

func TestMiddlewaresKeepStatusAndRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(ChiTraceMiddleware("test"))
	r.Use(ChiMetricsMiddleware)
	r.Use(ChiLogMiddleware("test"))

	var route string
	r.Get("/settings/{page}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		route = routePattern(r)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings/advanced", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if route != "/settings/{page}" {
		t.Fatalf("unexpected route pattern: %q", route)
	}
}

func TestOTLPEndpointFallbacks(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	if got := otlpEndpoint("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT"); got != "localhost:4317" {
		t.Fatalf("unexpected default endpoint: %s", got)
	}
	if Enabled() {
		t.Fatal("expected telemetry disabled without endpoint")
	}

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	if got := otlpEndpoint("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT"); got != "collector:4317" {
		t.Fatalf("unexpected shared endpoint: %s", got)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "logs:4317")
	if got := otlpEndpoint("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT"); got != "logs:4317" {
		t.Fatalf("unexpected signal endpoint: %s", got)
	}
}
