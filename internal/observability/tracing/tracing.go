package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const notifierTracerName = "github.com/KasumiMercury/primind-habit-notifier/internal/service/reminder"

func NotifierTracer() trace.Tracer {
	return otel.Tracer(notifierTracerName)
}

func StartTickSpan(ctx context.Context, now time.Time) (context.Context, trace.Span) {
	return NotifierTracer().Start(ctx, "reminder.tick",
		trace.WithAttributes(
			attribute.String("tick.time", now.Format(time.RFC3339)),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return NotifierTracer().Start(ctx, "reminder.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordTickResult(span trace.Span, fetchedCount, firedCount, dedupedCount int, err error) {
	span.SetAttributes(
		attribute.Int("tick.fetched_count", fetchedCount),
		attribute.Int("tick.fired_count", firedCount),
		attribute.Int("tick.deduplicated_count", dedupedCount),
	)
	RecordError(span, err)
}

func RecordHTTPResult(span trace.Span, statusCode int, err error) {
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// InjectToHTTPRequest propagates the span context on outgoing requests.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
