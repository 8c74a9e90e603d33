package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// WithTrace agrega trace_id y span_id del span activo en ctx, si hay uno.
func WithTrace(ctx context.Context, l Logger) Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(map[string]any{
		"trace_id": sc.TraceID().String(),
		"span_id":  sc.SpanID().String(),
	})
}
