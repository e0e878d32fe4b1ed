package telemetry

import (
	"context"
	"time"

	otelLog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

const defaultScope = "sellerdesk"

// Log emits a structured log event. The active trace id, when present, is
// attached so logs can be joined to spans.
func Log(ctx context.Context, severity otelLog.Severity, msg string, attrs ...otelLog.KeyValue) {
	logger := global.Logger(defaultScope)

	var rec otelLog.Record
	rec.SetEventName("app.log")
	rec.SetTimestamp(time.Now())
	rec.SetSeverity(severity)
	rec.SetSeverityText(severityText(severity))
	rec.SetBody(otelLog.StringValue(msg))
	if id := TraceID(ctx); id != "" {
		rec.AddAttributes(otelLog.String("trace_id", id))
	}
	rec.AddAttributes(attrs...)

	logger.Emit(ctx, rec)
}

func LogInfo(ctx context.Context, msg string, attrs ...otelLog.KeyValue) {
	Log(ctx, otelLog.SeverityInfo, msg, attrs...)
}

func LogWarn(ctx context.Context, msg string, attrs ...otelLog.KeyValue) {
	Log(ctx, otelLog.SeverityWarn, msg, attrs...)
}

func LogError(ctx context.Context, msg string, attrs ...otelLog.KeyValue) {
	Log(ctx, otelLog.SeverityError, msg, attrs...)
}

func severityText(sev otelLog.Severity) string {
	switch {
	case sev >= otelLog.SeverityError:
		return "ERROR"
	case sev >= otelLog.SeverityWarn:
		return "WARN"
	default:
		return "INFO"
	}
}

func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

func LogString(key, value string) otelLog.KeyValue {
	return otelLog.String(key, value)
}

func LogInt(key string, value int) otelLog.KeyValue {
	return otelLog.Int(key, value)
}

func LogBool(key string, value bool) otelLog.KeyValue {
	return otelLog.Bool(key, value)
}

func LogErr(err error) otelLog.KeyValue {
	if err == nil {
		return otelLog.String("error", "")
	}
	return otelLog.String("error", err.Error())
}
