package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors for the chore chart.
//
//   - chorechart_http_requests_total{method,code}
//   - chorechart_http_request_duration_seconds{method}
//   - chorechart_status_updates_total{status}
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	StatusUpdatesTotal  *prometheus.CounterVec
}

// New returns the process-wide metrics, registering them with the default
// registry on first use.
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chorechart_http_requests_total",
					Help: "Total number of HTTP requests handled",
				},
				[]string{"method", "code"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "chorechart_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method"},
			),
			StatusUpdatesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chorechart_status_updates_total",
					Help: "Total number of task status updates written",
				},
				[]string{"status"},
			),
		}
	})
	return globalMetrics
}
