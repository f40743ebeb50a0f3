package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"flowcellcli/internal/infrastructure"
)

// OperationTracer provides OpenTelemetry instrumentation for operations
type OperationTracer struct {
	tracer trace.Tracer

	operations  metric.Int64Counter
	experiments metric.Int64Counter
	rows        metric.Int64Counter
	artifacts   metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewOperationTracer creates the run instruments on the providers' meter
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		providers = infrastructure.NoopProviders()
	}
	m := providers.Meter
	pt := &OperationTracer{tracer: providers.Tracer}

	var err error
	if pt.operations, err = m.Int64Counter("flowcell_operations",
		metric.WithDescription("Operations run, by operation and status")); err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}
	if pt.experiments, err = m.Int64Counter("flowcell_experiments_processed",
		metric.WithDescription("Experiments passed through a calculator")); err != nil {
		return nil, fmt.Errorf("failed to create experiments counter: %w", err)
	}
	if pt.rows, err = m.Int64Counter("flowcell_rows_aggregated",
		metric.WithDescription("Rows in aggregate and boxplot tables")); err != nil {
		return nil, fmt.Errorf("failed to create rows counter: %w", err)
	}
	if pt.artifacts, err = m.Int64Counter("flowcell_artifacts_written",
		metric.WithDescription("Workbooks and figures written")); err != nil {
		return nil, fmt.Errorf("failed to create artifacts counter: %w", err)
	}
	if pt.duration, err = m.Float64Histogram("flowcell_operation_duration",
		metric.WithDescription("Operation duration"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return pt, nil
}

// TraceOperation creates the span of one operation
func (pt *OperationTracer) TraceOperation(ctx context.Context, operation string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.name", operation),
			attribute.String("trace_id", infrastructure.GetTraceID(ctx)),
		),
	)
}

// TraceStep creates a child span for one step
func (pt *OperationTracer) TraceStep(ctx context.Context, operation, step string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "step."+step,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.name", operation),
			attribute.String("step.name", step),
		),
	)
}

// RecordStepCompletion closes a step span
func (pt *OperationTracer) RecordStepCompletion(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordOperationCompletion records the outcome of an operation and closes its span
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, result *Result, err error) {
	status := "success"
	if err != nil {
		status = string(GetErrorType(err))
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", result.Operation),
		attribute.String("status", status),
	)

	pt.operations.Add(ctx, 1, attrs)
	pt.duration.Record(ctx, result.Duration.Seconds(), attrs)

	span.SetAttributes(
		attribute.Int("operation.experiments", result.Experiments),
		attribute.Int("operation.rows", result.Rows),
		attribute.Int("operation.artifacts", len(result.Artifacts)),
		attribute.Float64("operation.duration_seconds", result.Duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("operation failed with status: %s", status))
	} else {
		span.SetStatus(codes.Ok, "operation completed successfully")
	}
	span.End()
}

// RecordExperiments counts experiments sent through the calculator
func (pt *OperationTracer) RecordExperiments(ctx context.Context, operation string, n int) {
	pt.experiments.Add(ctx, int64(n), metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordRows counts rows of produced tables
func (pt *OperationTracer) RecordRows(ctx context.Context, operation string, n int) {
	pt.rows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordArtifact counts one written file and adds a span event for it
func (pt *OperationTracer) RecordArtifact(ctx context.Context, operation, kind, path string) {
	pt.artifacts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("kind", kind),
	))
	trace.SpanFromContext(ctx).AddEvent("artifact.written", trace.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("path", path),
		attribute.String("written_at", time.Now().UTC().Format(time.RFC3339)),
	))
}
