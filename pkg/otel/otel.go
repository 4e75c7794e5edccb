// Package otel wires OpenTelemetry tracing for the service: provider
// construction, span helpers and trace-ID extraction for log correlation.
package otel

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"prolist/pkg/logger"
)

// Config holds tracing settings.
type Config struct {
	ServiceName string
	Host        string  // OTLP gRPC endpoint; empty means stdout exporter
	Probability float64 // sampling ratio in [0,1]
}

type ctxKey int

const tracerKey ctxKey = 1

// InitTracing builds and registers the global tracer provider. The returned
// shutdown func flushes pending spans.
func InitTracing(log *logger.Logger, cfg Config) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	var exp sdktrace.SpanExporter
	var err error

	if cfg.Host != "" {
		exp, err = otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(cfg.Host),
			otlptracegrpc.WithInsecure(),
		)
	} else {
		exp, err = stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("creating exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.ServiceName),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.Probability)),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info(context.Background(), "tracing initialized", "exporter_host", cfg.Host, "probability", cfg.Probability)

	return tp, tp.Shutdown, nil
}

// InjectTracing stores the tracer in the context so handlers can open spans
// without holding a provider reference.
func InjectTracing(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, tracerKey, tracer)
}

// AddSpan starts a child span using the tracer injected by InjectTracing.
// Without one the span is a no-op.
func AddSpan(ctx context.Context, name string, kv ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer, ok := ctx.Value(tracerKey).(trace.Tracer)
	if !ok || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(kv...)
	return ctx, span
}

// GetTraceID returns the hex trace ID of the current span, or the zero ID
// when no span is recording.
func GetTraceID(ctx context.Context) string {
	return trace.SpanFromContext(ctx).SpanContext().TraceID().String()
}
