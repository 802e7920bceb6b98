package kgcn

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// NewTracerProvider creates a TracerProvider that exports traversal spans
// through the given exporter.
//
// The provider uses a SimpleSpanProcessor for immediate export without
// batching, so spans surface as soon as each traversal completes. Assign the
// result to Config.TracerProvider and call Shutdown on it when the pipeline
// is done.
func NewTracerProvider(exporter sdktrace.SpanExporter, logger *slog.Logger) *sdktrace.TracerProvider {
	if logger == nil {
		logger = slog.Default()
	}

	processor := sdktrace.NewSimpleSpanProcessor(exporter)

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String("kgcn"),
		),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	)
}
