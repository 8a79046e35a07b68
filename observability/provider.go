package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const serviceName = "sheetaudit"

// ExportConfig selects the OTLP collector metrics are pushed to.
type ExportConfig struct {
	Endpoint string // gRPC host:port, e.g. "localhost:4317"
	Insecure bool
	Interval time.Duration
}

// Provider owns the SDK meter provider installed as the global provider.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
}

// NewProvider installs a global meter provider exporting to cfg.Endpoint and to
// any extra readers. With neither it installs nothing and Enabled reports false.
func NewProvider(ctx context.Context, cfg ExportConfig, readers ...sdkmetric.Reader) (*Provider, error) {
	if cfg.Endpoint != "" {
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}

		exporter, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}

		interval := cfg.Interval
		if interval <= 0 {
			interval = 15 * time.Second
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(interval),
		))
	}
	if len(readers) == 0 {
		return &Provider{}, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	return &Provider{meterProvider: mp}, nil
}

// Enabled reports whether a meter provider was installed.
func (p *Provider) Enabled() bool {
	return p != nil && p.meterProvider != nil
}

// Meter returns the service meter from the installed provider, or from the
// global provider when none was installed.
func (p *Provider) Meter() metric.Meter {
	if !p.Enabled() {
		return otel.Meter(meterName)
	}
	return p.meterProvider.Meter(meterName)
}

// Shutdown flushes pending metrics and stops the exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}
