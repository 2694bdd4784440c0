// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the OpenTelemetry meter and tracer used around every job.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
}

// New builds the providers. Extra span processors (exporters) may be supplied;
// without any, spans are still created and carry IDs for log correlation.
func New(serviceName string, spanProcessors ...sdktrace.SpanProcessor) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}

	meterProvider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(meterProvider)

	opts := make([]sdktrace.TracerProviderOption, 0, len(spanProcessors))
	for _, sp := range spanProcessors {
		opts = append(opts, sdktrace.WithSpanProcessor(sp))
	}
	tracerProvider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tracerProvider)

	meter := meterProvider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	if err != nil {
		return nil, err
	}

	jobDuration, err := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		meter:          meter,
		tracer:         tracerProvider.Tracer(serviceName),
		jobCounter:     jobCounter,
		jobDuration:    jobDuration,
	}, nil
}

// StartSpan opens a span for one job. The returned func ends it and records
// the outcome; pass the job error or nil.
func (o *Observability) StartSpan(ctx context.Context, taskType string, jobKey int64) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, taskType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("job.type", taskType),
			attribute.Int64("job.key", jobKey),
		),
	)

	return ctx, func(err error) {
		status := "completed"
		if err != nil {
			status = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("job.status", status))
		span.End()

		o.RecordJobProcessed(ctx, taskType, status)
		o.RecordJobDuration(ctx, taskType, time.Since(start), status)
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		return err
	}
	return o.meterProvider.Shutdown(ctx)
}
