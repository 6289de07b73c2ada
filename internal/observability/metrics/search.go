package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type SearchMetrics struct {
	registry *prometheus.Registry

	searchTotal     *prometheus.CounterVec
	searchDuration  *prometheus.HistogramVec
	backendFailures *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec
	downloadTotal   *prometheus.CounterVec
	downloadBytes   prometheus.Counter
}

func NewSearchMetrics(service string) *SearchMetrics {
	registry := prometheus.NewRegistry()

	searchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adams",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total federated search requests by status.",
		},
		[]string{"service", "status"},
	)
	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adams",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Federated search duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	backendFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adams",
			Subsystem: "search",
			Name:      "backend_failures_total",
			Help:      "Total backend calls skipped after errors.",
		},
		[]string{"service", "backend"},
	)
	cacheTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adams",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total result cache lookups by outcome.",
		},
		[]string{"service", "outcome"},
	)
	downloadTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adams",
			Subsystem: "download",
			Name:      "documents_total",
			Help:      "Total document downloads by status.",
		},
		[]string{"service", "status"},
	)
	downloadBytes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adams",
			Subsystem: "download",
			Name:      "bytes_total",
			Help:      "Total bytes of downloaded document content.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		searchTotal,
		searchDuration,
		backendFailures,
		cacheTotal,
		downloadTotal,
		downloadBytes,
	)

	return &SearchMetrics{
		registry:        registry,
		searchTotal:     searchTotal,
		searchDuration:  searchDuration,
		backendFailures: backendFailures,
		cacheTotal:      cacheTotal,
		downloadTotal:   downloadTotal,
		downloadBytes:   downloadBytes,
	}
}

func (m *SearchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *SearchMetrics) FinishSearch(service string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.searchTotal.WithLabelValues(service, status).Inc()
	m.searchDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *SearchMetrics) RecordBackendFailure(service, backend string) {
	m.backendFailures.WithLabelValues(service, backend).Inc()
}

func (m *SearchMetrics) RecordCacheLookup(service string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheTotal.WithLabelValues(service, outcome).Inc()
}

func (m *SearchMetrics) RecordDownload(service, status string, bytes int64) {
	m.downloadTotal.WithLabelValues(service, status).Inc()
	if bytes > 0 {
		m.downloadBytes.Add(float64(bytes))
	}
}
