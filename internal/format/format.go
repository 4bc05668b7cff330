// Package format renders jobs and metrics snapshots for the console.
package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"teamcache.client/internal/core/domain"
)

// Bytes renders a byte count the way the server does (IEC units).
func Bytes(n int64) string {
	if n < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

// sizeReadable prefers the server's pre-rendered string and falls back to
// formatting the raw byte count.
func sizeReadable(readable string, bytes int64) string {
	if readable != "" {
		return readable
	}
	return Bytes(bytes)
}

// JobStatus renders a multi-line status block for a job.
func JobStatus(job *domain.Job) string {
	p := job.Progress
	lines := []string{
		fmt.Sprintf("Job ID: %s", job.ID),
		fmt.Sprintf("Status: %s", job.Status),
		fmt.Sprintf("Files: %d/%d (%.0f%%)", p.Files.Completed, p.Files.Total, p.Files.Percentage),
		fmt.Sprintf("Size: %s/%s (%.0f%%)",
			sizeReadable(p.Size.CompletedReadable, p.Size.Completed),
			sizeReadable(p.Size.TotalReadable, p.Size.Total),
			p.Size.Percentage),
	}

	if job.Throughput != nil {
		lines = append(lines, fmt.Sprintf("Speed: %s", job.Throughput.Readable))
	}

	return strings.Join(lines, "\n")
}

// ProgressLine renders the single-line progress indicator used while
// monitoring a job, suitable for printing with a leading carriage return.
func ProgressLine(job *domain.Job) string {
	p := job.Progress.Size
	return fmt.Sprintf("Progress: %s / %s (%.0f%%)",
		sizeReadable(p.CompletedReadable, p.Completed),
		sizeReadable(p.TotalReadable, p.Total),
		p.Percentage)
}

// JobRow renders one listing row.
func JobRow(job domain.JobSummary) string {
	return fmt.Sprintf("- %s: %s (%d/%d files)", job.ID, job.Status, job.CompletedFiles, job.TotalFiles)
}

// Snapshot renders a metrics snapshot block under the given title.
func Snapshot(title string, snap domain.MetricsSnapshot) string {
	var b strings.Builder
	rule := strings.Repeat("-", 50)

	fmt.Fprintf(&b, "%s\n%s\n", title, rule)

	if snap.LucidLink != nil {
		fmt.Fprintf(&b, "LucidLink Throughput: %.2f MB/s\n", snap.LucidLink.ThroughputMbps)
	}

	if snap.S3Health != nil {
		status := "Unhealthy"
		if snap.S3Health.IsHealthy {
			status = "Healthy"
		}
		fmt.Fprintf(&b, "S3 Status: %s\n", status)
		fmt.Fprintf(&b, "S3 Latency: %.0fms\n", snap.S3Health.Latency)
		fmt.Fprintf(&b, "S3 Avg Latency: %.0fms\n", snap.S3Health.AverageLatency)
	}

	b.WriteString(rule)
	return b.String()
}

// S3HealthLine renders one streaming health update.
func S3HealthLine(h domain.S3Health) string {
	status := "DOWN"
	if h.IsHealthy {
		status = "OK"
	}
	return fmt.Sprintf("S3 Health: %s Latency: %.0fms (avg: %.0fms)", status, h.Latency, h.AverageLatency)
}

// ThroughputLine renders one streaming throughput update.
func ThroughputLine(m domain.LucidLinkMetrics) string {
	return fmt.Sprintf("LucidLink: %.2f MB/s", m.ThroughputMbps)
}
