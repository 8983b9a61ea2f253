// Package telemetrytest records simulation metrics into an in-memory reader for tests.
package telemetrytest

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Faultbox/seacraft/internal/telemetry"
)

// Recorder collects the metrics of one set of instruments on demand.
type Recorder struct {
	t      testing.TB
	reader *sdkmetric.ManualReader
}

// New returns instruments backed by a manual reader and the Recorder that reads them.
func New(t testing.TB) (*telemetry.Instruments, *Recorder) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	p, err := telemetry.NewProviderWithReader(telemetry.Config{ServiceName: t.Name()}, reader)
	if err != nil {
		t.Fatalf("creating metric provider: %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	ins, err := p.Instruments()
	if err != nil {
		t.Fatalf("creating instruments: %v", err)
	}
	return ins, &Recorder{t: t, reader: reader}
}

func (r *Recorder) collect() metricdata.ResourceMetrics {
	r.t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(context.Background(), &rm); err != nil {
		r.t.Fatalf("collecting metrics: %v", err)
	}
	return rm
}

// Counter returns the cumulative value of the named int64 counter, 0 if unrecorded.
func (r *Recorder) Counter(name string) int64 {
	r.t.Helper()
	var total int64
	for _, sm := range r.collect().ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

// HistogramCount returns how many values the named float64 histogram recorded.
func (r *Recorder) HistogramCount(name string) uint64 {
	r.t.Helper()
	var count uint64
	for _, sm := range r.collect().ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if h, ok := m.Data.(metricdata.Histogram[float64]); ok {
				for _, dp := range h.DataPoints {
					count += dp.Count
				}
			}
		}
	}
	return count
}
