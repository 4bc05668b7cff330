package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamcache.client/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, "test-key")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, srv
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("X-API-Key = %q, want test-key", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": "connected"})
	}))

	resp, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if resp.Status != "ok" || resp.Database != "connected" {
		t.Errorf("Health() = %+v", resp)
	}
}

func TestFailingStatusReturnsAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "job not found"}`, http.StatusNotFound)
	}))

	_, err := client.GetJob(context.Background(), "missing")
	if err == nil {
		t.Fatal("GetJob() expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}

func TestCreateCacheJobValidation(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.CreateCacheJob(context.Background(), CreateJobRequest{Recursive: true})
	if !errors.Is(err, ErrNoPaths) {
		t.Fatalf("error = %v, want ErrNoPaths", err)
	}
	if called {
		t.Error("validation failure must not issue an HTTP request")
	}
}

func TestCreateCacheJob(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req CreateJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Directories) != 1 || req.Directories[0] != "Projects/2024/Q1" {
			t.Errorf("directories = %v", req.Directories)
		}
		if !req.Recursive {
			t.Error("recursive flag not forwarded")
		}
		json.NewEncoder(w).Encode(CreateJobResponse{
			Success:    true,
			JobID:      "job-123",
			TotalFiles: 42,
			TotalSize:  domain.Size{Bytes: 1 << 30, Readable: "1.0 GiB"},
		})
	}))

	resp, err := client.CreateCacheJob(context.Background(), CreateJobRequest{
		Directories: []string{"Projects/2024/Q1"},
		Recursive:   true,
	})
	if err != nil {
		t.Fatalf("CreateCacheJob() error = %v", err)
	}
	if resp.JobID != "job-123" || resp.TotalFiles != 42 {
		t.Errorf("CreateCacheJob() = %+v", resp)
	}
}

func TestListJobsQueryParams(t *testing.T) {
	tests := []struct {
		name       string
		opts       ListJobsOptions
		wantPage   string
		wantLimit  string
		wantStatus string
	}{
		{
			name:      "defaults",
			opts:      ListJobsOptions{},
			wantPage:  "1",
			wantLimit: "10",
		},
		{
			name:       "explicit with status filter",
			opts:       ListJobsOptions{Page: 3, Limit: 50, Status: domain.JobStatusRunning},
			wantPage:   "3",
			wantLimit:  "50",
			wantStatus: "running",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if got := q.Get("page"); got != tt.wantPage {
					t.Errorf("page = %q, want %q", got, tt.wantPage)
				}
				if got := q.Get("limit"); got != tt.wantLimit {
					t.Errorf("limit = %q, want %q", got, tt.wantLimit)
				}
				if got := q.Get("status"); got != tt.wantStatus {
					t.Errorf("status = %q, want %q", got, tt.wantStatus)
				}
				json.NewEncoder(w).Encode(JobList{Success: true, Page: 1, Limit: 10})
			}))

			if _, err := client.ListJobs(context.Background(), tt.opts); err != nil {
				t.Fatalf("ListJobs() error = %v", err)
			}
		})
	}
}

func TestCancelJob(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if r.URL.Path != "/api/v1/cache/jobs/job-9" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(CancelResponse{Success: true, JobID: "job-9", Message: "cancelled"})
	}))

	resp, err := client.CancelJob(context.Background(), "job-9")
	if err != nil {
		t.Fatalf("CancelJob() error = %v", err)
	}
	if !resp.Success || resp.JobID != "job-9" {
		t.Errorf("CancelJob() = %+v", resp)
	}
}

func TestMetrics(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"metrics": map[string]any{
				"lucidLink": map[string]any{"throughputMbps": 123.45},
				"s3Health":  map[string]any{"isHealthy": true, "latency": 12, "averageLatency": 15},
			},
		})
	}))

	snap, err := client.Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if snap.LucidLink == nil || snap.LucidLink.ThroughputMbps != 123.45 {
		t.Errorf("LucidLink = %+v", snap.LucidLink)
	}
	if snap.S3Health == nil || !snap.S3Health.IsHealthy || snap.S3Health.Latency != 12 {
		t.Errorf("S3Health = %+v", snap.S3Health)
	}
}
