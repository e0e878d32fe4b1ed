package db

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	queryMetricsEnabled bool
	queryDuration       metric.Float64Histogram
	queryFailures       metric.Int64Counter
	queryTracer         trace.Tracer
)

// InitTelemetry installs the tracer and query metrics. Queries run before
// it is called still get spans from the global tracer.
func InitTelemetry(serviceName string) {
	queryTracer = otel.Tracer(serviceName + "/db")
	meter := otel.Meter(serviceName + "/db")

	var err error
	queryDuration, err = meter.Float64Histogram(
		"sellerdesk_db_query_duration_seconds",
		metric.WithDescription("Database query latency by operation and table"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return
	}
	queryFailures, err = meter.Int64Counter(
		"sellerdesk_db_query_failures_total",
		metric.WithDescription("Database queries that returned an error other than no rows"),
	)
	if err != nil {
		return
	}
	queryMetricsEnabled = true
}

// tableName finds the first table a statement touches.
var tableName = regexp.MustCompile(`(?i)\b(?:from|into|update|join)\s+([a-z_][a-z0-9_.]*)`)

// queryTrace follows one statement from start until its result is consumed.
type queryTrace struct {
	ctx   context.Context
	span  trace.Span
	op    string
	table string
	start time.Time
	once  sync.Once
}

func startQuery(ctx context.Context, sql string) *queryTrace {
	op, table := describe(sql)
	tracer := queryTracer
	if tracer == nil {
		tracer = otel.Tracer("sellerdesk/db")
	}
	name := "DB " + op
	if table != "" {
		name += " " + table
	}
	ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", table),
	)
	return &queryTrace{ctx: ctx, span: span, op: op, table: table, start: time.Now()}
}

// finish ends the span and records metrics once, whatever path calls it.
func (q *queryTrace) finish(err error) {
	q.once.Do(func() {
		status := statusLabel(err)
		q.span.SetAttributes(attribute.String("db.status", status))
		if status == "error" || status == "unique_violation" {
			q.span.RecordError(err)
			q.span.SetStatus(codes.Error, status)
		}
		q.span.End()

		if !queryMetricsEnabled {
			return
		}
		attrs := metric.WithAttributes(
			attribute.String("db.operation", q.op),
			attribute.String("db.sql.table", q.table),
			attribute.String("db.status", status),
		)
		queryDuration.Record(q.ctx, time.Since(q.start).Seconds(), attrs)
		if status != "ok" && status != "not_found" {
			queryFailures.Add(q.ctx, 1, attrs)
		}
	})
}

type instrumentedQueryer struct {
	q Queryer
}

func (i instrumentedQueryer) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	qt := startQuery(ctx, sql)
	tag, err := i.q.Exec(qt.ctx, sql, arguments...)
	qt.finish(err)
	return tag, err
}

func (i instrumentedQueryer) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	qt := startQuery(ctx, sql)
	rows, err := i.q.Query(qt.ctx, sql, args...)
	if err != nil {
		qt.finish(err)
		return rows, err
	}
	return &tracedRows{Rows: rows, trace: qt}, nil
}

func (i instrumentedQueryer) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	qt := startQuery(ctx, sql)
	return &tracedRow{row: i.q.QueryRow(qt.ctx, sql, args...), trace: qt}
}

type tracedRows struct {
	pgx.Rows
	trace *queryTrace
}

func (r *tracedRows) Close() {
	r.Rows.Close()
	r.trace.finish(r.Rows.Err())
}

type tracedRow struct {
	row   pgx.Row
	trace *queryTrace
}

func (r *tracedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.trace.finish(err)
	return err
}

func statusLabel(err error) string {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, pgx.ErrNoRows):
		return "not_found"
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		return "unique_violation"
	default:
		return "error"
	}
}

// describe returns the statement verb and the first table it names.
func describe(sql string) (op, table string) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown", ""
	}
	op = strings.ToUpper(fields[0])
	if m := tableName.FindStringSubmatch(sql); m != nil {
		table = strings.ToLower(m[1])
	}
	return op, table
}
