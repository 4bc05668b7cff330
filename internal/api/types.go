package api

import (
	"fmt"
	"time"

	"teamcache.client/internal/core/domain"
)

// Version of the client library, reported in the User-Agent header.
const Version = "0.1.0"

// APIError is an HTTP failure status propagated from the server.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// HealthResponse is the API server health status.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateJobRequest describes the files and directories to cache.
type CreateJobRequest struct {
	Files       []string `json:"files,omitempty"`
	Directories []string `json:"directories,omitempty"`
	Recursive   bool     `json:"recursive"`
}

// CreateJobResponse confirms job creation with the scan totals.
type CreateJobResponse struct {
	Success    bool        `json:"success"`
	JobID      string      `json:"jobId"`
	TotalFiles int64       `json:"totalFiles"`
	TotalSize  domain.Size `json:"totalSize"`
}

type jobStatusResponse struct {
	Success bool        `json:"success"`
	Job     *domain.Job `json:"job"`
}

// JobList is one page of the job listing.
type JobList struct {
	Success bool                `json:"success"`
	Jobs    []domain.JobSummary `json:"jobs"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
}

// CancelResponse confirms a job cancellation.
type CancelResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

type metricsResponse struct {
	Success bool                   `json:"success"`
	Metrics domain.MetricsSnapshot `json:"metrics"`
}

// S3MetricsResponse is the detailed S3 health report with check history.
type S3MetricsResponse struct {
	Success bool                    `json:"success"`
	Current domain.S3Health         `json:"current"`
	History []domain.S3HealthSample `json:"history"`
}
