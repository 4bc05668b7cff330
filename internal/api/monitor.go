package api

import (
	"context"
	"time"

	"teamcache.client/internal/core/domain"
	"teamcache.client/internal/core/logger"
)

// DefaultPollInterval is used when MonitorJob is called with a non-positive
// interval.
const DefaultPollInterval = 5 * time.Second

// MonitorJob polls a job's status on a fixed interval until a terminal
// status is observed, invoking callback for every observation. It returns
// the final job descriptor. Cancellation is via ctx only; there is no
// backoff.
func (c *Client) MonitorJob(ctx context.Context, jobID string, interval time.Duration, callback func(*domain.Job)) (*domain.Job, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		if callback != nil {
			callback(job)
		}

		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// BatchResult reports the outcome of one directory submission.
type BatchResult struct {
	Directory string
	JobID     string
	Final     *domain.Job
	Err       error
}

// BatchCacheDirectories submits each directory as its own cache job. A
// failed submission is recorded in the result and the batch continues with
// the next directory. When monitor is true each created job is polled to
// completion before the next submission, with progress handed to the
// callback.
func (c *Client) BatchCacheDirectories(ctx context.Context, directories []string, monitor bool, interval time.Duration, progress func(*domain.Job)) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(directories))

	for _, dir := range directories {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		logger.Info("submitting cache job", "directory", dir)
		created, err := c.CreateCacheJob(ctx, CreateJobRequest{
			Directories: []string{dir},
			Recursive:   true,
		})
		if err != nil {
			logger.Error("job submission failed", "directory", dir, "error", err)
			results = append(results, BatchResult{Directory: dir, Err: err})
			continue
		}

		result := BatchResult{Directory: dir, JobID: created.JobID}
		logger.Info("created cache job",
			"directory", dir,
			"job_id", created.JobID,
			"files", created.TotalFiles,
			"size", created.TotalSize.Readable,
		)

		if monitor {
			final, err := c.MonitorJob(ctx, created.JobID, interval, progress)
			if err != nil {
				result.Err = err
				results = append(results, result)
				if ctx.Err() != nil {
					return results, ctx.Err()
				}
				continue
			}
			result.Final = final
		}

		results = append(results, result)
	}

	return results, nil
}
