package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "disaster_feed"

// Metrics holds the Prometheus collectors for the refresh loop and sources.
type Metrics struct {
	CyclesTotal     *prometheus.CounterVec // labels: trigger={timer,manual}, outcome={ready,stale}
	CycleDuration   prometheus.Histogram
	LastCycleUnix   prometheus.Gauge
	ProviderRunning prometheus.Gauge

	// Per-source metrics.
	SourceFetches   *prometheus.CounterVec   // labels: source, outcome={success,fallback}
	SourceDuration  *prometheus.HistogramVec // labels: source
	SourceRecords   *prometheus.GaugeVec     // labels: source
	SnapshotRecords *prometheus.GaugeVec     // labels: kind
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.LastCycleUnix,
		m.ProviderRunning,
		m.SourceFetches,
		m.SourceDuration,
		m.SourceRecords,
		m.SnapshotRecords,
	)
	return m
}

// NewUnregistered creates Metrics that are not exported anywhere. Binaries
// without a /metrics endpoint use it.
func NewUnregistered() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return NewUnregistered()
}

func newMetrics() *Metrics {
	return &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_cycles_total",
			Help:      "Completed refresh cycles by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_cycle_duration_seconds",
			Help:      "Duration of a complete fetch-aggregate-replace cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		LastCycleUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time the current snapshot was stamped.",
		}),
		ProviderRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_running",
			Help:      "1 while the refresh timer is active, 0 once stopped.",
		}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetches_total",
			Help:      "Source fetches by source and whether the fallback list was served.",
		}, []string{"source", "outcome"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Upstream request duration per source.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"source"}),
		SourceRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_records",
			Help:      "Records contributed by each source in the latest cycle.",
		}, []string{"source"}),
		SnapshotRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records in the current snapshot by kind.",
		}, []string{"kind"}),
	}
}
