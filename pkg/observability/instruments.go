package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instruments holds the application counters
type Instruments struct {
	authAttempts         metric.Int64Counter
	filterClausesDropped metric.Int64Counter
	statusEvents         metric.Int64Counter
}

// NewInstruments registers the application counters on the meter
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	authAttempts, err := meter.Int64Counter("auth.attempts",
		metric.WithDescription("Authentication operations by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth.attempts counter: %w", err)
	}

	filterClausesDropped, err := meter.Int64Counter("filter.clauses.dropped",
		metric.WithDescription("Filter clauses dropped for lack of a usable value"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter.clauses.dropped counter: %w", err)
	}

	statusEvents, err := meter.Int64Counter("user.status.events",
		metric.WithDescription("User status change events by delivery outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user.status.events counter: %w", err)
	}

	return &Instruments{
		authAttempts:         authAttempts,
		filterClausesDropped: filterClausesDropped,
		statusEvents:         statusEvents,
	}, nil
}

// RecordAuth counts one authentication operation. Safe on a nil receiver.
func (i *Instruments) RecordAuth(ctx context.Context, operation, outcome string) {
	if i == nil {
		return
	}
	i.authAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// RecordDroppedClauses counts clauses the filter compiler dropped
func (i *Instruments) RecordDroppedClauses(ctx context.Context, n int) {
	if i == nil || n <= 0 {
		return
	}
	i.filterClausesDropped.Add(ctx, int64(n))
}

// RecordStatusEvent counts a status change event delivery
func (i *Instruments) RecordStatusEvent(ctx context.Context, outcome string) {
	if i == nil {
		return
	}
	i.statusEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
