package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "f0oster/sheetaudit"

// Metrics counts handled notifications by kind and outcome.
type Metrics struct {
	notifications metric.Int64Counter
	entries       metric.Int64Counter
}

// NewMetrics registers the counters on meter. A nil meter uses the global provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}

	notifications, err := meter.Int64Counter("sheetaudit.notifications",
		metric.WithDescription("Notifications handled, by kind and outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifications counter: %w", err)
	}

	entries, err := meter.Int64Counter("sheetaudit.entries",
		metric.WithDescription("Log entries appended, by action type"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create entries counter: %w", err)
	}

	return &Metrics{notifications: notifications, entries: entries}, nil
}

// RecordOutcome counts one handled notification.
func (m *Metrics) RecordOutcome(ctx context.Context, kind, outcome string) {
	if m == nil {
		return
	}
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

// RecordEntry counts one appended log entry.
func (m *Metrics) RecordEntry(ctx context.Context, actionType string) {
	if m == nil {
		return
	}
	m.entries.Add(ctx, 1, metric.WithAttributes(attribute.String("action_type", actionType)))
}
