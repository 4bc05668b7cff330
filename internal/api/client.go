package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"teamcache.client/internal/core/domain"
	"teamcache.client/internal/core/tracing"
)

// ErrNoPaths is returned when a cache job is created with neither files nor
// directories.
var ErrNoPaths = errors.New("must provide either files or directories")

// Client talks to the TeamCache Manager REST API. Authentication is a static
// X-API-Key header; there is no retry or backoff, a failed call surfaces as
// an *APIError.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New constructs a client for the given base URL and API key.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		baseURL: parsed,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: "teamcache-client/" + Version,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Health checks API server health status.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, "health", http.MethodGet, "/api/v1/health", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCacheJob submits a new cache job. At least one of Files or
// Directories must be non-empty; the check happens locally before any
// request is made.
func (c *Client) CreateCacheJob(ctx context.Context, req CreateJobRequest) (*CreateJobResponse, error) {
	if len(req.Files) == 0 && len(req.Directories) == 0 {
		return nil, ErrNoPaths
	}

	var resp CreateJobResponse
	if err := c.doJSON(ctx, "create_job", http.MethodPost, "/api/v1/cache/jobs", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetJob fetches status and progress of a specific job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	var resp jobStatusResponse
	path := "/api/v1/cache/jobs/" + url.PathEscape(jobID)
	if err := c.doJSON(ctx, "get_job", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Job == nil {
		return nil, fmt.Errorf("job %s: response carried no job descriptor", jobID)
	}
	return resp.Job, nil
}

// ListJobsOptions filter the paginated job listing. Zero values fall back to
// page 1, limit 10, no status filter.
type ListJobsOptions struct {
	Page   int
	Limit  int
	Status domain.JobStatus
}

// ListJobs lists cache jobs with pagination.
func (c *Client) ListJobs(ctx context.Context, opts ListJobsOptions) (*JobList, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	query := url.Values{}
	query.Set("page", fmt.Sprintf("%d", opts.Page))
	query.Set("limit", fmt.Sprintf("%d", opts.Limit))
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}

	var resp JobList
	if err := c.doJSON(ctx, "list_jobs", http.MethodGet, "/api/v1/cache/jobs", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelJob cancels a running or pending job.
func (c *Client) CancelJob(ctx context.Context, jobID string) (*CancelResponse, error) {
	var resp CancelResponse
	path := "/api/v1/cache/jobs/" + url.PathEscape(jobID)
	if err := c.doJSON(ctx, "cancel_job", http.MethodDelete, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Metrics fetches the current system metrics snapshot (filesystem throughput
// and S3 health).
func (c *Client) Metrics(ctx context.Context) (*domain.MetricsSnapshot, error) {
	var resp metricsResponse
	if err := c.doJSON(ctx, "metrics", http.MethodGet, "/api/v1/metrics", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Metrics, nil
}

// S3Metrics fetches detailed S3 health metrics with history.
func (c *Client) S3Metrics(ctx context.Context) (*S3MetricsResponse, error) {
	var resp S3MetricsResponse
	if err := c.doJSON(ctx, "s3_metrics", http.MethodGet, "/api/v1/metrics/s3", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, span := tracing.StartSpan(ctx, op)
	defer span.End()

	var requestBody []byte
	if body != nil {
		var err error
		requestBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}

	requestURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		requestURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL.String(), bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-Request-ID", uuid.New().String())
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordRequest(method, op, 0, time.Since(start))
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	recordRequest(method, op, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
