package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard and its imagery service client.
type Metrics struct {
	// Imagery service client metrics.
	ImageryRequests    *prometheus.CounterVec   // labels: method={verify,list,date,reduce,map}, outcome={success,error}
	ImageryAPIDuration *prometheus.HistogramVec // labels: method
	ReduceCache        *prometheus.CounterVec   // labels: result={hit,miss}
	ServiceUp          prometheus.Gauge

	// Dashboard view metrics.
	ViewRequests     *prometheus.CounterVec // labels: view={map,statistics,timeseries}
	ViewErrors       *prometheus.CounterVec // labels: view
	TimeSeriesLength prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ImageryRequests,
		m.ImageryAPIDuration,
		m.ReduceCache,
		m.ServiceUp,
		m.ViewRequests,
		m.ViewErrors,
		m.TimeSeriesLength,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ImageryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_dashboard",
			Name:      "imagery_requests_total",
			Help:      "Imagery service API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		ImageryAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "carbon_dashboard",
			Name:      "imagery_api_duration_seconds",
			Help:      "Imagery service API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		ReduceCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_dashboard",
			Name:      "reduce_cache_total",
			Help:      "Reduction cache lookups by result.",
		}, []string{"result"}),
		ServiceUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "carbon_dashboard",
			Name:      "imagery_service_up",
			Help:      "1 when the startup credential probe succeeded, 0 otherwise.",
		}),
		ViewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_dashboard",
			Name:      "view_requests_total",
			Help:      "Dashboard view API requests by view.",
		}, []string{"view"}),
		ViewErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_dashboard",
			Name:      "view_errors_total",
			Help:      "Dashboard view failures surfaced as inline errors, by view.",
		}, []string{"view"}),
		TimeSeriesLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carbon_dashboard",
			Name:      "time_series_length",
			Help:      "Number of images contributing to a rendered time series.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 40, 80, 160},
		}),
	}
}
