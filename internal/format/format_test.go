package format

import (
	"strings"
	"testing"

	"teamcache.client/internal/core/domain"
)

func TestJobStatus(t *testing.T) {
	job := &domain.Job{
		ID:     "job-1",
		Status: domain.JobStatusRunning,
		Progress: domain.Progress{
			Files: domain.CountProgress{Completed: 5, Total: 10, Percentage: 50},
			Size: domain.SizeProgress{
				CompletedReadable: "2.5 GiB",
				TotalReadable:     "5.0 GiB",
				Percentage:        50,
			},
		},
		Throughput: &domain.Throughput{Readable: "120 MiB/s"},
	}

	got := JobStatus(job)
	for _, want := range []string{
		"Job ID: job-1",
		"Status: running",
		"Files: 5/10 (50%)",
		"Size: 2.5 GiB/5.0 GiB (50%)",
		"Speed: 120 MiB/s",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("JobStatus() missing %q in:\n%s", want, got)
		}
	}
}

func TestJobStatusWithoutThroughput(t *testing.T) {
	job := &domain.Job{ID: "job-2", Status: domain.JobStatusPending}
	if got := JobStatus(job); strings.Contains(got, "Speed:") {
		t.Errorf("JobStatus() should omit speed line, got:\n%s", got)
	}
}

func TestProgressLineFallsBackToRawBytes(t *testing.T) {
	job := &domain.Job{
		Progress: domain.Progress{
			Size: domain.SizeProgress{
				Completed:  512 * 1024 * 1024,
				Total:      1024 * 1024 * 1024,
				Percentage: 50,
			},
		},
	}

	got := ProgressLine(job)
	if !strings.Contains(got, "512 MiB") || !strings.Contains(got, "1.0 GiB") {
		t.Errorf("ProgressLine() = %q, want humanized byte counts", got)
	}
}

func TestSnapshot(t *testing.T) {
	snap := domain.MetricsSnapshot{
		LucidLink: &domain.LucidLinkMetrics{ThroughputMbps: 88.5},
		S3Health:  &domain.S3Health{IsHealthy: true, Latency: 12, AverageLatency: 15},
	}

	got := Snapshot("Current metrics", snap)
	for _, want := range []string{
		"Current metrics",
		"LucidLink Throughput: 88.50 MB/s",
		"S3 Status: Healthy",
		"S3 Latency: 12ms",
		"S3 Avg Latency: 15ms",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Snapshot() missing %q in:\n%s", want, got)
		}
	}
}

func TestSnapshotEmptySides(t *testing.T) {
	got := Snapshot("t", domain.MetricsSnapshot{})
	if strings.Contains(got, "LucidLink") || strings.Contains(got, "S3") {
		t.Errorf("Snapshot() with empty sides should render neither block:\n%s", got)
	}
}

func TestJobRow(t *testing.T) {
	row := JobRow(domain.JobSummary{
		ID:             "job-7",
		Status:         domain.JobStatusCompleted,
		CompletedFiles: 9,
		TotalFiles:     9,
	})
	if row != "- job-7: completed (9/9 files)" {
		t.Errorf("JobRow() = %q", row)
	}
}
