package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docs_approval"

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Registration workflow metrics
	RegistrationTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "transitions_total",
			Help:      "Registration state transitions by target status",
		},
		[]string{"status"},
	)

	// Translation vendor metrics
	TranslationCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "vendor_calls_total",
			Help:      "Calls to the translation vendor by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	TranslationCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "vendor_call_duration_seconds",
			Help:      "Translation vendor call duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	// Scheduler metrics
	SchedulerJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "jobs_total",
			Help:      "Scheduled job runs by job name and outcome",
		},
		[]string{"job_name", "outcome"},
	)
)

// RecordHTTPRequest records an HTTP request metric
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRegistrationTransition counts a decided or newly submitted registration
func RecordRegistrationTransition(status string) {
	RegistrationTransitionsTotal.WithLabelValues(status).Inc()
}

// RecordTranslationCall records a vendor call
func RecordTranslationCall(operation string, err error, duration time.Duration) {
	TranslationCallsTotal.WithLabelValues(operation, outcome(err)).Inc()
	TranslationCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSchedulerJob records a scheduled job run
func RecordSchedulerJob(jobName string, err error) {
	SchedulerJobsTotal.WithLabelValues(jobName, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
