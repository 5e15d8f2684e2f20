package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/ragkit/ragkit-go/ragkit"
)

var globalMeterProvider *sdkmetric.MeterProvider

// InitMetrics initializes OpenTelemetry metrics with Prometheus export.
func InitMetrics(serviceName string) (*sdkmetric.MeterProvider, error) {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)

	globalMeterProvider = provider
	return provider, nil
}

// GetMeter returns a meter from the current global meter provider.
func GetMeter(name string) metric.Meter {
	return otel.Meter(name)
}

// MetricsPipeline wraps a pipeline with metrics collection.
//
// Records query counts by outcome and chosen tool, error counts by type,
// and end-to-end latency covering both reasoning round trips.
type MetricsPipeline struct {
	pipeline         Pipeline
	queryCounter     metric.Int64Counter
	errorCounter     metric.Int64Counter
	latencyHistogram metric.Float64Histogram
}

// NewMetricsPipeline creates a new metrics wrapper.
func NewMetricsPipeline(pipeline Pipeline) (*MetricsPipeline, error) {
	meter := GetMeter("ragkit.observability")

	queryCounter, err := meter.Int64Counter(
		"ragkit.pipeline.queries",
		metric.WithDescription("Total number of processed queries"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create query counter: %w", err)
	}

	errorCounter, err := meter.Int64Counter(
		"ragkit.pipeline.errors",
		metric.WithDescription("Total number of failed queries"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	latencyHistogram, err := meter.Float64Histogram(
		"ragkit.pipeline.latency",
		metric.WithDescription("End-to-end query processing latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}

	return &MetricsPipeline{
		pipeline:         pipeline,
		queryCounter:     queryCounter,
		errorCounter:     errorCounter,
		latencyHistogram: latencyHistogram,
	}, nil
}

// Process runs the wrapped pipeline and records metrics for the call.
func (m *MetricsPipeline) Process(ctx context.Context, query string) (*ragkit.Result, error) {
	startTime := time.Now()

	result, err := m.pipeline.Process(ctx, query)

	latencyMs := float64(time.Since(startTime).Microseconds()) / 1000.0

	if err != nil {
		errorAttrs := []attribute.KeyValue{
			attribute.String("status", "error"),
			attribute.String("error.type", fmt.Sprintf("%T", err)),
		}
		m.queryCounter.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
		m.errorCounter.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
		m.latencyHistogram.Record(ctx, latencyMs, metric.WithAttributes(errorAttrs...))
		return nil, err
	}

	successAttrs := []attribute.KeyValue{
		attribute.String("status", "success"),
		attribute.String("tool", result.ToolChosen),
	}
	m.queryCounter.Add(ctx, 1, metric.WithAttributes(successAttrs...))
	m.latencyHistogram.Record(ctx, latencyMs, metric.WithAttributes(successAttrs...))

	return result, nil
}

// ShutdownMetrics gracefully shuts down the meter provider.
func ShutdownMetrics(ctx context.Context) error {
	if globalMeterProvider != nil {
		return globalMeterProvider.Shutdown(ctx)
	}
	return nil
}
