package domain

import (
	"time"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status is final and polling can stop.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Job is a server-side caching operation over files/directories. The server
// owns the lifecycle; the client only deserializes and displays it.
type Job struct {
	ID         string      `json:"id"`
	Status     JobStatus   `json:"status"`
	Progress   Progress    `json:"progress"`
	Throughput *Throughput `json:"throughput,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// JobSummary is the flattened row shape used by the paginated job listing.
type JobSummary struct {
	ID             string    `json:"id"`
	Status         JobStatus `json:"status"`
	CompletedFiles int64     `json:"completed_files"`
	TotalFiles     int64     `json:"total_files"`
	CreatedAt      time.Time `json:"created_at"`
}

type Progress struct {
	Files CountProgress `json:"files"`
	Size  SizeProgress  `json:"size"`
}

type CountProgress struct {
	Completed  int64   `json:"completed"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
}

type SizeProgress struct {
	Completed         int64   `json:"completed"`
	Total             int64   `json:"total"`
	CompletedReadable string  `json:"completedReadable"`
	TotalReadable     string  `json:"totalReadable"`
	Percentage        float64 `json:"percentage"`
}

type Throughput struct {
	BytesPerSecond float64 `json:"bytesPerSecond"`
	Readable       string  `json:"readable"`
}

// Size pairs a raw byte count with the server's human-readable rendering.
type Size struct {
	Bytes    int64  `json:"bytes"`
	Readable string `json:"readable"`
}
