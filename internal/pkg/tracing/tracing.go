// Package tracing wires the OpenTelemetry SDK and exposes the two W3C
// trace-context conversions the checkout flow needs: rendering the active
// span as a traceparent header, and rebuilding a context from the
// traceparent captured on a reservation response so the matching payment
// call joins the same trace.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/skysync/skysync-tui/internal/app/config"
)

// Init sets the global tracer provider and W3C propagator. With tracing
// disabled it still installs the propagator (header injection must work
// against traced backends) and returns a no-op shutdown.
func Init(ctx context.Context, cfg config.Tracing) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.EndpointURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		)),
	)

	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

// Traceparent renders the span context active in ctx as a W3C traceparent
// value, or "" when none is recorded.
func Traceparent(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}

	return fmt.Sprintf("00-%s-%s-%02x",
		spanCtx.TraceID(), spanCtx.SpanID(), byte(spanCtx.TraceFlags()))
}

// Tracestate renders the tracestate active in ctx, or "".
func Tracestate(ctx context.Context) string {
	return trace.SpanContextFromContext(ctx).TraceState().String()
}

// Extract returns ctx carrying the remote span context described by the
// given traceparent/tracestate pair. An empty traceparent returns ctx
// unchanged.
func Extract(ctx context.Context, traceparent, tracestate string) context.Context {
	if traceparent == "" {
		return ctx
	}

	carrier := propagation.MapCarrier{"traceparent": traceparent}
	if tracestate != "" {
		carrier["tracestate"] = tracestate
	}

	return propagation.TraceContext{}.Extract(ctx, carrier)
}
