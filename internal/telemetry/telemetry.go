// Package telemetry exposes the OpenTelemetry instruments recorded by the ocean simulation.
// Instruments come from the global meter provider, a no-op until a Provider is installed.
package telemetry

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/Faultbox/seacraft"

// Instruments groups every metric the simulation records.
type Instruments struct {
	TickDuration    metric.Float64Histogram
	EvolveDuration  metric.Float64Histogram
	BakeDuration    metric.Float64Histogram
	DegradedQueries metric.Int64Counter
	SubmergedPoints metric.Int64Counter
	SpectrumRebuild metric.Int64Counter
}

// New creates the instruments from the given meter.
func New(m metric.Meter) (*Instruments, error) {
	var (
		ins Instruments
		err error
	)

	ins.TickDuration, err = m.Float64Histogram(
		"ocean.tick.duration",
		metric.WithDescription("Wall time of one simulation tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}

	ins.EvolveDuration, err = m.Float64Histogram(
		"ocean.evolve.duration",
		metric.WithDescription("Wall time of one spectrum evolution step"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating evolve histogram: %w", err)
	}

	ins.BakeDuration, err = m.Float64Histogram(
		"ocean.bake.duration",
		metric.WithDescription("Wall time of one heightmap bake"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating bake histogram: %w", err)
	}

	ins.DegradedQueries, err = m.Int64Counter(
		"ocean.query.degraded",
		metric.WithDescription("Ocean queries answered without a heightmap"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating degraded counter: %w", err)
	}

	ins.SubmergedPoints, err = m.Int64Counter(
		"buoyancy.points.submerged",
		metric.WithDescription("Tension points that produced a force"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating submerged counter: %w", err)
	}

	ins.SpectrumRebuild, err = m.Int64Counter(
		"ocean.spectrum.rebuilds",
		metric.WithDescription("Spectrum regenerations after a configuration change"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rebuild counter: %w", err)
	}

	return &ins, nil
}

var (
	defaultOnce sync.Once
	defaultIns  *Instruments
	enabled     = true
)

// SetEnabled selects between the global meter provider and a no-op one.
// Must be called before the first Default call to take effect.
func SetEnabled(on bool) {
	enabled = on
}

// Default returns process-wide instruments, falling back to no-op ones if creation fails.
func Default() *Instruments {
	defaultOnce.Do(func() {
		var m metric.Meter
		if enabled {
			m = otel.Meter(instrumentationName)
		} else {
			m = noop.NewMeterProvider().Meter(instrumentationName)
		}
		ins, err := New(m)
		if err != nil {
			ins, _ = New(noop.NewMeterProvider().Meter(instrumentationName))
		}
		defaultIns = ins
	})
	return defaultIns
}
