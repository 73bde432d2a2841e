// Package telemetry wires OpenTelemetry instruments for the service.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ServiceName is used as the instrumentation scope and the echo span name.
const ServiceName = "ai-service"

// Metrics records workflow outcomes.
type Metrics struct {
	workflows  metric.Int64Counter
	recoveries metric.Int64Counter
	jobs       metric.Int64Histogram
}

// NewMetrics registers instruments on the global meter provider. Without an
// SDK configured the instruments are no-ops.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(ServiceName))
}

// NewMetricsWithMeter registers instruments on meter.
func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	workflows, err := meter.Int64Counter("workflows_total",
		metric.WithDescription("Completed orchestration workflows"))
	if err != nil {
		return nil, fmt.Errorf("failed to create workflows counter: %w", err)
	}
	recoveries, err := meter.Int64Counter("workflow_recoveries_total",
		metric.WithDescription("Workflows that triggered autonomous recovery"))
	if err != nil {
		return nil, fmt.Errorf("failed to create recoveries counter: %w", err)
	}
	jobs, err := meter.Int64Histogram("workflow_jobs_found",
		metric.WithDescription("Jobs returned per workflow"))
	if err != nil {
		return nil, fmt.Errorf("failed to create jobs histogram: %w", err)
	}
	return &Metrics{workflows: workflows, recoveries: recoveries, jobs: jobs}, nil
}

// RecordWorkflow records one completed workflow.
func (m *Metrics) RecordWorkflow(ctx context.Context, workflowType, status string, recovered bool, jobsFound int) {
	attrs := metric.WithAttributes(
		attribute.String("workflow_type", workflowType),
		attribute.String("status", status),
	)
	m.workflows.Add(ctx, 1, attrs)
	if recovered {
		m.recoveries.Add(ctx, 1, metric.WithAttributes(attribute.String("workflow_type", workflowType)))
	}
	m.jobs.Record(ctx, int64(jobsFound), attrs)
}
