package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zmanim_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL
// pipeline, the upstream client and the collector.
type Metrics struct {
	WindowsConsumed prometheus.Counter
	DaysProduced    prometheus.Counter
	TransformErrors *prometheus.CounterVec // labels: reason={parse,duplicate_event,missing_event,chain_resolution,invalid_window}
	PipelineRunning prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// ChainLength observes the offset of the day that closed a rest period:
	// 1 for a plain Sabbath, 2 or 3 for chained festival days.
	ChainLength prometheus.Histogram

	// Upstream zmanim service metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	UpstreamCache    *prometheus.CounterVec // labels: result={hit,miss}
	UpstreamDuration prometheus.Histogram

	// Collector metrics.
	EnvelopesPublished *prometheus.CounterVec // labels: outcome={published,failed}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		WindowsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_consumed_total",
			Help:      "Total window envelopes read from the source topic.",
		}),
		DaysProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_produced_total",
			Help:      "Total resolved days written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Windows that failed to parse or resolve, by reason.",
		}, []string{"reason"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of windows per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ChainLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rest_period_chain_length_days",
			Help:      "Days between a rest-period eve and the day that ends it.",
			Buckets:   []float64{1, 2, 3},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Zmanim service requests by outcome.",
		}, []string{"outcome"}),
		UpstreamCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_cache_total",
			Help:      "Upstream response cache lookups by result.",
		}, []string{"result"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Zmanim service request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EnvelopesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collector_envelopes_total",
			Help:      "Window envelopes the collector attempted to publish, by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.WindowsConsumed,
		m.DaysProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ChainLength,
		m.UpstreamRequests,
		m.UpstreamCache,
		m.UpstreamDuration,
		m.EnvelopesPublished,
	}
}
