// Package metrics provides Prometheus metrics for upload and delete
// operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_operations_total",
			Help: "Total upload and delete operations by outcome",
		},
		[]string{"backend", "operation", "outcome"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courier_operation_duration_seconds",
			Help:    "Duration of upload and delete operations, cleanup included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	responseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_response_codes_total",
			Help: "Response codes returned to callers",
		},
		[]string{"backend", "code"},
	)

	localCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courier_local_cleanup_failures_total",
			Help: "Local source files that could not be removed after upload",
		},
	)
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// RecordOperation records one finished upload or delete.
func RecordOperation(backend, operation string, ok bool, code int, duration time.Duration) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
	}
	operationsTotal.WithLabelValues(backend, operation, outcome).Inc()
	operationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	responseCodes.WithLabelValues(backend, strconv.Itoa(code)).Inc()
}

// RecordLocalCleanupFailure counts a failed post-upload removal.
func RecordLocalCleanupFailure() {
	localCleanupFailures.Inc()
}

// Handler returns the Prometheus metrics HTTP handler for embedding
// applications that expose a metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
