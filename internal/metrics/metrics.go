package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics of the gateway
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// RNDC Metrics
	RNDCCallsTotal    *prometheus.CounterVec
	RNDCCallDuration  *prometheus.HistogramVec
	RNDCRetriesTotal  prometheus.Counter
	BatchRowsTotal    *prometheus.CounterVec
	BatchDuration     *prometheus.HistogramVec
	ImportedRowsTotal *prometheus.CounterVec
}

// NewMetricsRegistry creates every metric on reg. Tests pass a fresh
// prometheus.NewRegistry(); the server passes prometheus.DefaultRegisterer.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rndc_gateway_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rndc_gateway_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rndc_gateway_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rndc_gateway_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rndc_gateway_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// RNDC Metrics
		RNDCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rndc_gateway_rndc_calls_total",
				Help: "Outbound RNDC SOAP calls by outcome",
			},
			[]string{"outcome"},
		),
		RNDCCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rndc_gateway_rndc_call_duration_seconds",
				Help:    "RNDC SOAP call latency in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"outcome"},
		),
		RNDCRetriesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rndc_gateway_rndc_retries_total",
				Help: "RNDC calls repeated by the retry policy",
			},
		),
		BatchRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rndc_gateway_batch_rows_total",
				Help: "Rows processed by submission batches by document type and result",
			},
			[]string{"document_type", "result"},
		),
		BatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rndc_gateway_batch_duration_seconds",
				Help:    "Batch execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"document_type"},
		),
		ImportedRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rndc_gateway_imported_rows_total",
				Help: "Master data rows imported by entity and result",
			},
			[]string{"entity", "result"},
		),
	}
}

// ObserveRNDCCall records one outbound call. All recording methods are no-ops
// on a nil registry.
func (m *MetricsRegistry) ObserveRNDCCall(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RNDCCallsTotal.WithLabelValues(outcome).Inc()
	m.RNDCCallDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *MetricsRegistry) IncRNDCRetry() {
	if m == nil {
		return
	}
	m.RNDCRetriesTotal.Inc()
}

// ObserveBatch records the rows of a finished batch.
func (m *MetricsRegistry) ObserveBatch(docType string, success, failed int, duration time.Duration) {
	if m == nil {
		return
	}
	m.BatchRowsTotal.WithLabelValues(docType, "success").Add(float64(success))
	m.BatchRowsTotal.WithLabelValues(docType, "error").Add(float64(failed))
	m.BatchDuration.WithLabelValues(docType).Observe(duration.Seconds())
}

func (m *MetricsRegistry) ObserveImport(entity string, success, failed int) {
	if m == nil {
		return
	}
	m.ImportedRowsTotal.WithLabelValues(entity, "success").Add(float64(success))
	m.ImportedRowsTotal.WithLabelValues(entity, "error").Add(float64(failed))
}

func (m *MetricsRegistry) CacheLookup(pattern string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}
