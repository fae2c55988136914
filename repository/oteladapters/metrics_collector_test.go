package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository/oteladapters"
)

func givenMeter() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %s was not collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// setup
	reader, collector := givenMeter()

	// act
	collector.RecordDuration("repository_query_duration_seconds", 150*time.Millisecond, map[string]string{"status": "success"})
	collector.RecordDurationContext(context.Background(), "repository_query_duration_seconds", 50*time.Millisecond, map[string]string{"status": "success"})

	// assert
	histogram, ok := collectMetric(t, reader, "repository_query_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(2), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.2, histogram.DataPoints[0].Sum, 0.001)

	status, found := histogram.DataPoints[0].Attributes.Value(attribute.Key("status"))
	assert.True(t, found)
	assert.Equal(t, "success", status.AsString())
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// setup
	reader, collector := givenMeter()
	labels := map[string]string{"error_type": "database_query"}

	// act
	collector.IncrementCounter("repository_database_errors_total", labels)
	collector.IncrementCounterContext(context.Background(), "repository_database_errors_total", labels)

	// assert
	sum, ok := collectMetric(t, reader, "repository_database_errors_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// setup
	reader, collector := givenMeter()

	// act
	collector.RecordValue("repository_rows_queried", 3, nil)
	collector.RecordValueContext(context.Background(), "repository_rows_queried", 5, nil)

	// assert
	gauge, ok := collectMetric(t, reader, "repository_rows_queried").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 5.0, gauge.DataPoints[0].Value, 0.0001)
}
