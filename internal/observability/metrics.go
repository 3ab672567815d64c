// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Fetch client
	ClientRequests  *prometheus.CounterVec
	ClientFallbacks *prometheus.CounterVec

	// Polling cache
	PollFetches *prometheus.CounterVec
	PollDeduped *prometheus.CounterVec

	// Upstream providers
	UpstreamLatency *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec

	// Scheduler
	JobRuns     *prometheus.CounterVec
	JobDuration *prometheus.HistogramVec

	// Cache
	CacheLookups *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "chainmetrics"
	}
	factory := promauto.With(reg)

	return &Metrics{
		ClientRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Fetch client requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		ClientFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "fallbacks_total",
			Help:      "Fetch client results replaced by their fallback value",
		}, []string{"operation"}),

		PollFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "fetches_total",
			Help:      "Underlying fetches issued by the polling cache",
		}, []string{"kind", "trigger"}),
		PollDeduped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "deduped_total",
			Help:      "Revalidations skipped or joined inside the dedupe window",
		}, []string{"kind"}),

		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "endpoint"}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Upstream API request failures",
		}, []string{"provider", "endpoint"}),

		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Scheduled job runs by status",
		}, []string{"job", "status"}),
		JobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "duration_seconds",
			Help:      "Scheduled job duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"job"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Redis cache lookups by key and result",
		}, []string{"key", "result"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

func RecordClientRequest(operation, outcome string) {
	DefaultMetrics.ClientRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordClientFallback counts a fetch client result that was masked by its fallback.
func RecordClientFallback(operation string) {
	DefaultMetrics.ClientFallbacks.WithLabelValues(operation).Inc()
}

func RecordPollFetch(kind, trigger string) {
	DefaultMetrics.PollFetches.WithLabelValues(kind, trigger).Inc()
}

func RecordPollDeduped(kind string) {
	DefaultMetrics.PollDeduped.WithLabelValues(kind).Inc()
}

// RecordUpstream records an upstream request latency and, when err is set, an error.
func RecordUpstream(provider, endpoint string, seconds float64, err error) {
	DefaultMetrics.UpstreamLatency.WithLabelValues(provider, endpoint).Observe(seconds)
	if err != nil {
		DefaultMetrics.UpstreamErrors.WithLabelValues(provider, endpoint).Inc()
	}
}

// RecordJobRun records a scheduler run.
func RecordJobRun(job string, durationSeconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.JobRuns.WithLabelValues(job, status).Inc()
	DefaultMetrics.JobDuration.WithLabelValues(job).Observe(durationSeconds)
}

func RecordCacheLookup(key, result string) {
	DefaultMetrics.CacheLookups.WithLabelValues(key, result).Inc()
}
