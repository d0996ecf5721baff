package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_IsolatedInstances(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.SourceFetches.WithLabelValues("usgs", "success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.SourceFetches.WithLabelValues("usgs", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SourceFetches.WithLabelValues("usgs", "success")))
}

func TestMetrics_RegisterOnCustomRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()

	require.NoError(t, reg.Register(m.CyclesTotal))
	require.NoError(t, reg.Register(m.SnapshotRecords))

	m.CyclesTotal.WithLabelValues("timer", "ready").Inc()
	m.SnapshotRecords.WithLabelValues("earthquake").Set(4)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "disaster_feed_refresh_cycles_total")
	assert.Contains(t, names, "disaster_feed_snapshot_records")
}

func TestNewUnregistered_StaysOffDefaultRegistry(t *testing.T) {
	m := NewUnregistered()
	m.CyclesTotal.WithLabelValues("manual", "ready").Inc()
	m.ProviderRunning.Set(1)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.NotContains(t, f.GetName(), namespace)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues("manual", "ready")))
}
