// Package observability provides OpenTelemetry integration for ragkit.
//
// Includes distributed tracing, Prometheus metrics export, and trace-aware
// structured logging for monitoring the query pipeline.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ragkit/ragkit-go/ragkit"
)

// Pipeline is the processing contract the tracing and metrics wrappers
// decorate. The agent package's Agent satisfies it.
type Pipeline interface {
	Process(ctx context.Context, query string) (*ragkit.Result, error)
}

var globalTracerProvider *sdktrace.TracerProvider

// InitTracing initializes OpenTelemetry tracing with the specified configuration.
func InitTracing(serviceName string, otlpEndpoint string, consoleExport bool) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var spanProcessors []sdktrace.SpanProcessor

	if otlpEndpoint != "" {
		exporter, err := otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpoint(otlpEndpoint),
			otlptracegrpc.WithInsecure(), // For development; use TLS in production
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		spanProcessors = append(spanProcessors, sdktrace.NewBatchSpanProcessor(exporter))
	}

	if consoleExport {
		exporter, err := stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create console exporter: %w", err)
		}
		spanProcessors = append(spanProcessors, sdktrace.NewBatchSpanProcessor(exporter))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
	)
	for _, processor := range spanProcessors {
		tp.RegisterSpanProcessor(processor)
	}

	otel.SetTracerProvider(tp)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	globalTracerProvider = tp
	return tp, nil
}

// GetTracer returns a tracer from the current global tracer provider.
func GetTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// TracingPipeline wraps a pipeline with distributed tracing.
//
// Each Process call becomes one span carrying the query length, the tool the
// engine chose, and whether a fallback fired.
type TracingPipeline struct {
	pipeline Pipeline
	spanName string
	tracer   trace.Tracer
}

// NewTracingPipeline creates a new tracing wrapper.
func NewTracingPipeline(pipeline Pipeline, spanName string) *TracingPipeline {
	if spanName == "" {
		spanName = "ragkit.pipeline.process"
	}
	return &TracingPipeline{
		pipeline: pipeline,
		spanName: spanName,
		tracer:   GetTracer("ragkit.observability"),
	}
}

// Process runs the wrapped pipeline inside a span.
func (t *TracingPipeline) Process(ctx context.Context, query string) (*ragkit.Result, error) {
	ctx, span := t.tracer.Start(ctx, t.spanName, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	span.SetAttributes(
		attribute.Int("query.length", len(query)),
	)

	result, err := t.pipeline.Process(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("pipeline.tool_chosen", result.ToolChosen),
		attribute.Int("pipeline.word_count", result.WordCount),
		attribute.Int("pipeline.history_length", len(result.ConversationHistory)),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// Shutdown gracefully shuts down the tracer provider.
func Shutdown(ctx context.Context) error {
	if globalTracerProvider != nil {
		return globalTracerProvider.Shutdown(ctx)
	}
	return nil
}
