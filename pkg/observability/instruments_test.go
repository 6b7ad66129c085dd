package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	return totals
}

func TestInstruments_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	inst, err := NewInstruments(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	inst.RecordAuth(ctx, "login", "success")
	inst.RecordAuth(ctx, "login", "invalid_credentials")
	inst.RecordDroppedClauses(ctx, 3)
	inst.RecordDroppedClauses(ctx, 0)
	inst.RecordStatusEvent(ctx, "published")

	totals := collect(t, reader)
	assert.Equal(t, int64(2), totals["auth.attempts"])
	assert.Equal(t, int64(3), totals["filter.clauses.dropped"])
	assert.Equal(t, int64(1), totals["user.status.events"])
}

func TestInstruments_NilReceiverIsNoop(t *testing.T) {
	var inst *Instruments
	assert.NotPanics(t, func() {
		inst.RecordAuth(context.Background(), "login", "success")
		inst.RecordDroppedClauses(context.Background(), 1)
		inst.RecordStatusEvent(context.Background(), "failed")
	})
}
