package telemetrytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderReadsCounters(t *testing.T) {
	ins, rec := New(t)
	ctx := context.Background()

	ins.SubmergedPoints.Add(ctx, 4)
	ins.SubmergedPoints.Add(ctx, 2)
	ins.TickDuration.Record(ctx, 1.5)
	ins.TickDuration.Record(ctx, 2.5)

	assert.Equal(t, int64(6), rec.Counter("buoyancy.points.submerged"))
	assert.Zero(t, rec.Counter("ocean.query.degraded"))
	assert.Equal(t, uint64(2), rec.HistogramCount("ocean.tick.duration"))
}
