package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewWithNoopMeter(t *testing.T) {
	ins, err := New(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, ins)

	assert.NotPanics(t, func() {
		ctx := context.Background()
		ins.TickDuration.Record(ctx, 1.5)
		ins.DegradedQueries.Add(ctx, 1)
		ins.SubmergedPoints.Add(ctx, 4)
	})
}

func TestDefaultIsSingleton(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
	assert.NotNil(t, a.EvolveDuration)
}
