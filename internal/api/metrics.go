package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamcache_client_requests_total",
			Help: "Total number of TeamCache API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teamcache_client_request_duration_seconds",
			Help:    "TeamCache API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// recordRequest records one API call. A status of 0 means the request never
// produced an HTTP response (transport failure).
func recordRequest(method, endpoint string, status int, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	apiRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
