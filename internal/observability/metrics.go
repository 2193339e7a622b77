package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard data layer.
type Metrics struct {
	FetchRequests *prometheus.CounterVec   // labels: source={census,fred,hud}, outcome={success,error,partial}
	FetchDuration *prometheus.HistogramVec // labels: source
	YearsFetched  prometheus.Counter
	YearFailures  prometheus.Counter

	// Fetch cache metrics.
	CacheLookups *prometheus.CounterVec // labels: source, result={hit,miss}

	// Report builder metrics.
	ReportsBuilt    prometheus.Counter
	ReportFallbacks prometheus.Counter

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	SnapshotErrors     prometheus.Counter
	SnapshotsEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "fetch_requests_total",
			Help:      "Upstream fetch operations by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "econdash",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a complete multi-year fetch per source.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		YearsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "years_fetched_total",
			Help:      "Total per-year fetches that succeeded.",
		}),
		YearFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "year_failures_total",
			Help:      "Total per-year fetches that failed.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "fetch_cache_total",
			Help:      "Fetch cache lookups by source and result.",
		}, []string{"source", "result"}),
		ReportsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "reports_built_total",
			Help:      "Total report content builds.",
		}),
		ReportFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "report_fallbacks_total",
			Help:      "Observation derivations replaced by the generic fallback sentence.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "snapshots_published_total",
			Help:      "Year results published to the snapshot topic.",
		}),
		SnapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "snapshot_errors_total",
			Help:      "Snapshot publish failures.",
		}),
		SnapshotsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "econdash",
			Name:      "snapshots_enabled",
			Help:      "1 when Kafka snapshot publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.YearsFetched,
		m.YearFailures,
		m.CacheLookups,
		m.ReportsBuilt,
		m.ReportFallbacks,
		m.SnapshotsPublished,
		m.SnapshotErrors,
		m.SnapshotsEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "econdash", Name: "fetch_requests_total"}, []string{"source", "outcome"}),
		FetchDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "econdash", Name: "fetch_duration_seconds"}, []string{"source"}),
		YearsFetched:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "econdash", Name: "years_fetched_total"}),
		YearFailures:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "econdash", Name: "year_failures_total"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "econdash", Name: "fetch_cache_total"}, []string{"source", "result"}),
		ReportsBuilt:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "econdash", Name: "reports_built_total"}),
		ReportFallbacks:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "econdash", Name: "report_fallbacks_total"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "econdash", Name: "snapshots_published_total"}),
		SnapshotErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "econdash", Name: "snapshot_errors_total"}),
		SnapshotsEnabled:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "econdash", Name: "snapshots_enabled"}),
	}
}
