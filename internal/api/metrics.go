package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperless_client_requests_total",
		Help: "Total Paperless API requests by method and status",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paperless_client_request_duration_seconds",
		Help:    "Paperless API request duration in seconds by method",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	dryRunSuppressedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperless_client_dry_run_suppressed_total",
		Help: "Mutating requests built but not sent because of dry-run mode",
	}, []string{"method"})

	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paperless_client_pages_fetched_total",
		Help: "Total collection pages decoded by the pagination engine",
	})
)

// statusLabel maps a response code to a metric label; 0 means no response.
func statusLabel(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}
