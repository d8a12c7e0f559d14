// Package telemetry wires OpenTelemetry tracing. Tracing is opt-in: without
// Setup the global provider is a no-op and spans cost nothing.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/guildledger/internal/domain"
)

// Config controls trace export.
type Config struct {
	Enabled     bool
	Endpoint    string // OTLP/HTTP endpoint URL; empty uses the exporter's env defaults
	ServiceName string
	Version     string
}

// Setup installs a global tracer provider exporting over OTLP/HTTP. The
// returned shutdown flushes pending spans and should be deferred by the caller.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}

	var opts []otlptracehttp.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a span tagged with the acting player.
func StartSpan(ctx context.Context, tracer trace.Tracer, name, playerID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("player.id", playerID)))
}

// EndSpan records the outcome of an operation and ends the span. Business
// rule rejections are tagged with their code but do not mark the span failed.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		code := domain.Code(err)
		span.SetAttributes(attribute.String("error.code", code))
		if !domain.IsBusinessError(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, code)
		}
	}
	span.End()
}
