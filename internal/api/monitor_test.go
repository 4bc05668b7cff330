package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"teamcache.client/internal/core/domain"
)

func TestMonitorJobStopsAtTerminalStatus(t *testing.T) {
	var polls int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&polls, 1)
		status := domain.JobStatusRunning
		if n >= 3 {
			status = domain.JobStatusCompleted
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"job":     &domain.Job{ID: "job-1", Status: status},
		})
	}))

	var observed []domain.JobStatus
	final, err := client.MonitorJob(context.Background(), "job-1", time.Millisecond, func(job *domain.Job) {
		observed = append(observed, job.Status)
	})
	if err != nil {
		t.Fatalf("MonitorJob() error = %v", err)
	}

	if final.Status != domain.JobStatusCompleted {
		t.Errorf("final status = %s, want completed", final.Status)
	}
	if got := atomic.LoadInt64(&polls); got != 3 {
		t.Errorf("polls = %d, want 3 (must stop at first terminal status)", got)
	}
	if len(observed) != 3 || observed[2] != domain.JobStatusCompleted {
		t.Errorf("observed = %v", observed)
	}
}

func TestMonitorJobContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"job":     &domain.Job{ID: "job-1", Status: domain.JobStatusRunning},
		})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.MonitorJob(ctx, "job-1", time.Hour, nil)
	if err != context.Canceled {
		t.Errorf("MonitorJob() error = %v, want context.Canceled", err)
	}
}

func TestBatchCacheDirectoriesContinuesOnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateJobRequest
		json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Directories[0], "broken") {
			http.Error(w, `{"error": "path does not exist"}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(CreateJobResponse{
			Success: true,
			JobID:   "job-" + req.Directories[0],
		})
	}))

	dirs := []string{"alpha", "broken/beta", "gamma"}
	results, err := client.BatchCacheDirectories(context.Background(), dirs, false, 0, nil)
	if err != nil {
		t.Fatalf("BatchCacheDirectories() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].JobID != "job-alpha" || results[0].Err != nil {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Err == nil {
		t.Error("results[1] should carry the submission error")
	}
	if results[2].JobID != "job-gamma" || results[2].Err != nil {
		t.Errorf("results[2] = %+v", results[2])
	}
}
