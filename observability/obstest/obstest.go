// Package obstest collects metrics in tests.
package obstest

import (
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Collector reads metrics through a manual reader. Use either Meter, which
// registers the reader on a private provider, or Reader to register it on
// another provider. A reader belongs to one provider only.
type Collector struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

func NewCollector() *Collector {
	return &Collector{reader: sdkmetric.NewManualReader()}
}

func (c *Collector) Meter() metric.Meter {
	if c.provider == nil {
		c.provider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(c.reader))
	}
	return c.provider.Meter("test")
}

func (c *Collector) Reader() sdkmetric.Reader {
	return c.reader
}

// Sums collects the named int64 sum and keys each data point by the values of
// the given attributes joined with "/".
func (c *Collector) Sums(t testing.TB, name string, keys ...string) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := c.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				parts := make([]string, 0, len(keys))
				for _, k := range keys {
					v, _ := dp.Attributes.Value(attribute.Key(k))
					parts = append(parts, v.AsString())
				}
				out[strings.Join(parts, "/")] += dp.Value
			}
		}
	}
	return out
}
