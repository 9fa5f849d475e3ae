package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	jobIDKey
)

// WithContext stores logger on ctx.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored on ctx, or a nop logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID records the API request ID on ctx and stores a logger
// carrying it.
func WithRequestID(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withField(ctx, base, requestIDKey, "request_id", requestID)
}

// WithJobID records the sync job ID on ctx and stores a logger carrying it.
func WithJobID(ctx context.Context, base *zap.Logger, jobID string) (context.Context, *zap.Logger) {
	return withField(ctx, base, jobIDKey, "job_id", jobID)
}

func withField(ctx context.Context, base *zap.Logger, key ctxKey, name, value string) (context.Context, *zap.Logger) {
	l := base.With(zap.String(name, value))
	ctx = context.WithValue(ctx, key, value)
	return WithContext(ctx, l), l
}

// GetRequestID returns the request ID on ctx, or "".
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}

// GetJobID returns the sync job ID on ctx, or "".
func GetJobID(ctx context.Context) string {
	s, _ := ctx.Value(jobIDKey).(string)
	return s
}

// CorrelationFields returns the request, job and trace identifiers found on
// ctx, skipping the ones that are absent.
func CorrelationFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetJobID(ctx); id != "" {
		fields = append(fields, zap.String("job_id", id))
	}
	return append(fields, traceFields(ctx)...)
}

// WithTraceContext adds trace_id and span_id from the active span, if any.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	fields := traceFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

func traceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
