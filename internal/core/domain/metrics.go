package domain

import "time"

// LucidLinkMetrics reports filesystem throughput as measured by the server.
type LucidLinkMetrics struct {
	ThroughputMbps float64 `json:"throughputMbps"`
}

// S3Health is the server's view of the S3 backend. Latencies are in
// milliseconds.
type S3Health struct {
	IsHealthy      bool    `json:"isHealthy"`
	Latency        float64 `json:"latency"`
	AverageLatency float64 `json:"averageLatency"`
}

// MetricsSnapshot is a point-in-time report of throughput and backend
// health. Either side may be nil when the server has not produced a reading
// yet.
type MetricsSnapshot struct {
	LucidLink *LucidLinkMetrics `json:"lucidLink,omitempty"`
	S3Health  *S3Health         `json:"s3Health,omitempty"`
}

// S3HealthSample is one historical health-check observation.
type S3HealthSample struct {
	S3Health
	Timestamp time.Time `json:"timestamp"`
}

// Streaming message type discriminators emitted on the metrics channel.
const (
	StreamTypeMetrics        = "metrics"         // full snapshot
	StreamTypeLucidLinkStats = "lucidlink-stats" // throughput update
	StreamTypeS3Health       = "s3-health"       // health update
)

// StreamMessage is one typed message from the metrics websocket. Partial
// updates carry only the side named by the type discriminator.
type StreamMessage struct {
	Type      string            `json:"type"`
	LucidLink *LucidLinkMetrics `json:"lucidLink,omitempty"`
	S3Health  *S3Health         `json:"s3Health,omitempty"`
}
