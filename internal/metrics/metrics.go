package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		10, 25, 50, // model answered from memory
		100, 250, 500, // normal inference
		1000, 2500, 5000, // slow
		10000, 30000, // very slow
	}

	SubmissionsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "factoryguard_console_submissions_total",
			Help: "Form submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionLatency = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "factoryguard_console_submission_latency_ms",
			Help:    "Prediction round trip for form submissions in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"outcome"},
	)

	RiskLevelsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "factoryguard_console_risk_levels_total",
			Help: "Successful predictions by risk level",
		},
		[]string{"level"},
	)

	ProxyRequestsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "factoryguard_console_proxy_requests_total",
			Help: "Requests relayed to the prediction service by upstream status",
		},
		[]string{"status"},
	)

	InFlight = promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "factoryguard_console_submissions_in_flight",
			Help: "Submissions waiting on the prediction service",
		},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveSubmission records one finished submission.
func ObserveSubmission(outcome string, elapsed time.Duration) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
	SubmissionLatency.WithLabelValues(outcome).Observe(float64(elapsed.Milliseconds()))
}

// ObserveRiskLevel counts a successful prediction's level.
func ObserveRiskLevel(level string) {
	RiskLevelsTotal.WithLabelValues(level).Inc()
}

// ObserveProxy counts a relayed request. Status 0 means the upstream was unreachable.
func ObserveProxy(status int) {
	ProxyRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

// Registry exposes the collector registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
