package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// DefaultInterval is how often metrics are exported when no interval is configured.
const DefaultInterval = 10 * time.Second

// Config holds metric export settings.
type Config struct {
	Enabled     bool
	ServiceName string
	Interval    time.Duration
	Writer      io.Writer // Export destination, stderr when nil
}

// Provider owns the SDK meter provider that collects the simulation metrics.
// A disabled Provider hands out no-op meters and its methods do nothing.
type Provider struct {
	mp     *sdkmetric.MeterProvider
	config Config
}

// NewProvider builds a provider exporting to cfg.Writer on a periodic reader.
func NewProvider(cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return newProvider(cfg, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
}

// NewProviderWithReader builds an enabled provider around reader, e.g. a
// sdkmetric.ManualReader that is collected on demand.
func NewProviderWithReader(cfg Config, reader sdkmetric.Reader) (*Provider, error) {
	cfg.Enabled = true
	return newProvider(cfg, reader)
}

func newProvider(cfg Config, reader sdkmetric.Reader) (*Provider, error) {
	name := cfg.ServiceName
	if name == "" {
		name = "oceansim"
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(name)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	return &Provider{
		config: cfg,
		mp: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		),
	}, nil
}

// Enabled reports whether metrics are collected.
func (p *Provider) Enabled() bool {
	return p.mp != nil
}

// Meter returns a meter from the SDK provider, or a no-op meter when disabled.
func (p *Provider) Meter(name string) metric.Meter {
	if p.mp == nil {
		return noop.NewMeterProvider().Meter(name)
	}
	return p.mp.Meter(name)
}

// Instruments creates the simulation instruments on this provider.
func (p *Provider) Instruments() (*Instruments, error) {
	return New(p.Meter(instrumentationName))
}

// Install makes p the global meter provider so Default records into it.
// Call it before the first Default.
func (p *Provider) Install() {
	if p.mp != nil {
		otel.SetMeterProvider(p.mp)
	}
}

// Flush exports everything recorded so far.
func (p *Provider) Flush(ctx context.Context) error {
	if p.mp == nil {
		return nil
	}
	if err := p.mp.ForceFlush(ctx); err != nil {
		return fmt.Errorf("metric flush failed: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the exporter. Should be called when the application exits.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.mp == nil {
		return nil
	}
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("metric shutdown failed: %w", err)
	}
	return nil
}
