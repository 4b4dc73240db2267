package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer narrows the otel tracer to the span helpers used here.
type Tracer interface {
	StartSpanFromContext(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span)
	SpanFromContext(ctx context.Context) Span
	GetTracer() trace.Tracer
}

type otelTracer struct {
	tracer trace.Tracer
}

// NewTracer returns a named tracer backed by the global provider.
func NewTracer(name string) Tracer {
	return &otelTracer{tracer: otel.Tracer(name)}
}

func (t *otelTracer) StartSpanFromContext(
	ctx context.Context, name string, opts ...trace.SpanStartOption,
) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, NewSpan(span)
}

func (t *otelTracer) SpanFromContext(ctx context.Context) Span {
	return NewSpan(trace.SpanFromContext(ctx))
}

func (t *otelTracer) GetTracer() trace.Tracer {
	return t.tracer
}
