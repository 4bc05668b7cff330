package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lucidLinkThroughput = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamcache_lucidlink_throughput_mbps",
			Help: "LucidLink filesystem throughput in MB/s",
		},
	)

	s3Healthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamcache_s3_healthy",
			Help: "Whether the S3 backend is healthy (1) or not (0)",
		},
	)

	s3Latency = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamcache_s3_latency_ms",
			Help: "Latest S3 health-check latency in milliseconds",
		},
	)

	s3AvgLatency = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamcache_s3_avg_latency_ms",
			Help: "Rolling average S3 health-check latency in milliseconds",
		},
	)

	lastUpdateTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamcache_last_update_timestamp_seconds",
			Help: "Unix time of the last metrics sample, from stream or poll",
		},
	)

	scrapeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamcache_exporter_scrape_errors_total",
			Help: "Total errors while collecting TeamCache metrics",
		},
		[]string{"source"},
	)
)
