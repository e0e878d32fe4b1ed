package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelLog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
)

var (
	httpMetricsEnabled bool
	httpRequestsTotal  metric.Int64Counter
	httpRequestSeconds metric.Float64Histogram
)

func initHTTPMetricsInstruments(serviceName string) {
	meter := otel.Meter(serviceName)

	var err error
	httpRequestsTotal, err = meter.Int64Counter(
		"sellerdesk_http_requests_total",
		metric.WithDescription("HTTP requests served"),
	)
	if err != nil {
		return
	}

	httpRequestSeconds, err = meter.Float64Histogram(
		"sellerdesk_http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return
	}

	httpMetricsEnabled = true
}

// statusWriter remembers the status code written by the handler chain.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func wrapWriter(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if rp := strings.TrimSpace(rc.RoutePattern()); rp != "" {
			return rp
		}
	}
	return "unknown_route"
}

// ChiTraceMiddleware opens one server span per request, renamed to the
// matched route once the router has run.
func ChiTraceMiddleware(serviceName string) func(http.Handler) http.Handler {
	tracer := otel.Tracer(serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := wrapWriter(w)

			ctx, span := tracer.Start(r.Context(), "HTTP "+r.Method+" "+r.URL.Path)
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			)
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				span.SetAttributes(attribute.String("http.request_id", reqID))
			}

			next.ServeHTTP(sw, r.WithContext(ctx))

			route := routePattern(r)
			span.SetName("HTTP " + r.Method + " " + route)
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.status_code", sw.status),
			)
			if sw.status >= 500 {
				span.SetStatus(codes.Error, "server_error")
			}
		})
	}
}

func ChiMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := wrapWriter(w)

		next.ServeHTTP(sw, r)

		if !httpMetricsEnabled {
			return
		}
		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", routePattern(r)),
			attribute.Int("http.status_code", sw.status),
		)
		httpRequestsTotal.Add(r.Context(), 1, attrs)
		httpRequestSeconds.Record(r.Context(), time.Since(start).Seconds(), attrs)
	})
}

func ChiLogMiddleware(serviceName string) func(http.Handler) http.Handler {
	logger := global.Logger(serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := wrapWriter(w)

			next.ServeHTTP(sw, r)

			severity := severityForStatus(sw.status)
			var rec otelLog.Record
			rec.SetEventName("http.request")
			rec.SetTimestamp(time.Now())
			rec.SetSeverity(severity)
			rec.SetSeverityText(severityText(severity))
			rec.SetBody(otelLog.StringValue("request completed"))
			rec.AddAttributes(
				otelLog.String("http.method", r.Method),
				otelLog.String("http.route", routePattern(r)),
				otelLog.String("http.target", r.URL.Path),
				otelLog.String("http.request_id", middleware.GetReqID(r.Context())),
				otelLog.Int("http.status_code", sw.status),
				otelLog.Int64("http.duration_ms", time.Since(start).Milliseconds()),
			)

			logger.Emit(r.Context(), rec)
		})
	}
}

func severityForStatus(status int) otelLog.Severity {
	switch {
	case status >= 500:
		return otelLog.SeverityError
	case status >= 400:
		return otelLog.SeverityWarn
	default:
		return otelLog.SeverityInfo
	}
}
