package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"bbbcli/internal/shared/testutil"
)

// sumByStatus collects an Int64 sum keyed by its "status" attribute
func sumByStatus(t *testing.T, rm metricdata.ResourceMetrics, name string) map[string]int64 {
	t.Helper()
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value(attribute.Key("status"))
				out[status.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestTelemetry_LoadCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	tel, err := NewTelemetry(provider.Meter("test"))
	require.NoError(t, err)

	dir := t.TempDir()
	good := testutil.StandardMatch(1, 4)
	bad := testutil.Ball("a", "b", "c", 0, 0)
	delete(bad, "runs")
	good.Innings[0]["overs"] = append(good.Innings[0]["overs"].([]map[string]any), testutil.Over(9, bad))
	good.WriteFile(t, dir, "1.json")
	testutil.WriteRaw(t, dir, "2.json", []byte(`[]`))
	undated := testutil.StandardMatch(3, 1)
	undated.Info["dates"] = []string{"soon"}
	undated.WriteFile(t, dir, "3.json")

	loader := NewCorpusLoader(Options{Workers: 2, Telemetry: tel})
	ds, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 8, ds.Len())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, map[string]int64{"parsed": 2, "rejected": 1}, sumByStatus(t, rm, "bbb_match_documents_total"))
	assert.Equal(t, map[string]int64{"extracted": 10, "dropped": 1}, sumByStatus(t, rm, "bbb_deliveries_total"))

	rejected := sumByStatus(t, rm, "bbb_date_rejected_rows_total")
	assert.Equal(t, int64(2), rejected[""])
}

func TestNewTelemetry_NilMeter(t *testing.T) {
	tel, err := NewTelemetry(nil)
	require.NoError(t, err)
	assert.NotNil(t, tel)
}
