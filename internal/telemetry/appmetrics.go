package telemetry

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	appMetricsEnabled   bool
	formSubmissions     metric.Int64Counter
	loginAttempts       metric.Int64Counter
	testPingsSent       metric.Int64Counter
	sessionScanPageSize int64 = 500
)

// InitAppMetrics registers domain counters and the pool/session gauges.
// pool and client may be nil, in which case their gauges are skipped.
func InitAppMetrics(serviceName string, pool *pgxpool.Pool, client *redis.Client, sessionPrefix string) {
	meter := otel.Meter(serviceName)

	var err error
	formSubmissions, err = meter.Int64Counter(
		"sellerdesk_form_submissions_total",
		metric.WithDescription("Settings form submissions by form and outcome"),
	)
	if err != nil {
		return
	}
	loginAttempts, err = meter.Int64Counter(
		"sellerdesk_login_attempts_total",
		metric.WithDescription("Login attempts by outcome"),
	)
	if err != nil {
		return
	}
	testPingsSent, err = meter.Int64Counter(
		"sellerdesk_test_pings_total",
		metric.WithDescription("Test pings delivered to seller endpoints"),
	)
	if err != nil {
		return
	}

	if pool != nil {
		_, _ = meter.Int64ObservableGauge(
			"sellerdesk_db_pool_acquired_conns",
			metric.WithDescription("Connections currently acquired from the pool"),
			metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
				o.Observe(int64(pool.Stat().AcquiredConns()))
				return nil
			}),
		)
	}

	if client != nil {
		prefix := strings.TrimSpace(sessionPrefix)
		_, _ = meter.Int64ObservableGauge(
			"sellerdesk_active_sessions",
			metric.WithDescription("Sessions currently stored in redis"),
			metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
				n, err := countKeys(ctx, client, prefix+"*")
				if err != nil {
					return nil
				}
				o.Observe(n)
				return nil
			}),
		)
	}

	appMetricsEnabled = true
}

func countKeys(ctx context.Context, client *redis.Client, pattern string) (int64, error) {
	var (
		cursor uint64
		total  int64
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, sessionScanPageSize).Result()
		if err != nil {
			return 0, err
		}
		total += int64(len(keys))
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

// RecordFormSubmission counts one submit of the named form.
func RecordFormSubmission(ctx context.Context, form string, ok bool) {
	if !appMetricsEnabled {
		return
	}
	formSubmissions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("form", form),
		attribute.String("status", outcome(ok)),
	))
}

func RecordLoginAttempt(ctx context.Context, result string) {
	if !appMetricsEnabled {
		return
	}
	loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func RecordTestPing(ctx context.Context, ok bool) {
	if !appMetricsEnabled {
		return
	}
	testPingsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("status", outcome(ok))))
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
