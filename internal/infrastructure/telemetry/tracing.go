package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for pipeline spans
const TracerName = "github.com/erp/catalogsync"

// Span attribute keys. AttrSyncMode is shared with the sync metrics.
const (
	AttrJobID      = attribute.Key("sync.job_id")
	AttrTotalItems = attribute.Key("sync.total_items")
	AttrPageSize   = attribute.Key("sync.page_size")
	AttrRecords    = attribute.Key("sync.records")
	AttrEndpoint   = attribute.Key("remote.endpoint")
)

// Tracer returns the pipeline tracer from the global provider, so spans
// are no-ops until a TracerProvider is installed.
func Tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartSpan starts an internal span. The caller ends it.
//
//	ctx, span := telemetry.StartSpan(ctx, "catalog_sync.run", telemetry.AttrSyncMode.String("full"))
//	defer span.End()
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// StartClientSpan starts a span for an outbound call to the remote platform
func StartClientSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on span and marks the span failed. A nil err
// is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// MarkFailed sets an error status without an exception event, for
// outcomes that are reported as values rather than errors.
func MarkFailed(span trace.Span, description string) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Error, description)
}

// AddEvent adds a time-stamped annotation to span
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
