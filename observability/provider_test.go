package observability_test

import (
	"context"
	"testing"

	"f0oster/sheetaudit/observability"
	"f0oster/sheetaudit/observability/obstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
)

func resetGlobalMeterProvider(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { otel.SetMeterProvider(noop.NewMeterProvider()) })
}

func TestNewProvider_DisabledWithoutExporter(t *testing.T) {
	resetGlobalMeterProvider(t)

	p, err := observability.NewProvider(context.Background(), observability.ExportConfig{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_InstallsGlobalProvider(t *testing.T) {
	resetGlobalMeterProvider(t)
	ctx := context.Background()
	collector := obstest.NewCollector()

	p, err := observability.NewProvider(ctx, observability.ExportConfig{}, collector.Reader())
	require.NoError(t, err)
	require.True(t, p.Enabled())
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	// A nil meter resolves through the global provider NewProvider installed.
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)
	m.RecordOutcome(ctx, "edit", "logged")

	counts := collector.Sums(t, "sheetaudit.notifications", "kind", "outcome")
	assert.Equal(t, int64(1), counts["edit/logged"])
}

func TestNewProvider_WithEndpoint(t *testing.T) {
	resetGlobalMeterProvider(t)

	p, err := observability.NewProvider(context.Background(), observability.ExportConfig{
		Endpoint: "127.0.0.1:4317",
		Insecure: true,
	})
	require.NoError(t, err)
	assert.True(t, p.Enabled())
}
