package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// consoleProvider pretty-prints spans to stdout for local runs where no
// collector is reachable. The empty variant keeps the TraceProvider
// surface with no exporter behind it.
type consoleProvider struct {
	tp *sdktrace.TracerProvider
}

// NewEmptyTraceProvider returns a provider that records nothing.
func NewEmptyTraceProvider() TraceProvider {
	return consoleProvider{}
}

// NewConsoleTraceProvider installs a stdout span exporter as the global
// tracer provider.
func NewConsoleTraceProvider() TraceProvider {
	exporter, _ := stdouttrace.New(stdouttrace.WithPrettyPrint())
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return consoleProvider{tp: tp}
}

// Stop flushes any buffered spans.
func (p consoleProvider) Stop() error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(context.Background())
}
