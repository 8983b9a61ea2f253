package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProviderIsNoop(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	ins, err := p.Instruments()
	require.NoError(t, err)
	ins.DegradedQueries.Add(context.Background(), 1)

	ctx := context.Background()
	assert.NoError(t, p.Flush(ctx))
	assert.NoError(t, p.Shutdown(ctx))
}

func TestProviderExportsToWriter(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProvider(Config{Enabled: true, ServiceName: "test", Writer: &buf})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	ins, err := p.Instruments()
	require.NoError(t, err)
	ctx := context.Background()
	ins.DegradedQueries.Add(ctx, 3)
	ins.TickDuration.Record(ctx, 4.2)

	require.NoError(t, p.Shutdown(ctx))
	assert.Contains(t, buf.String(), "ocean.query.degraded")
	assert.Contains(t, buf.String(), "ocean.tick.duration")
}
