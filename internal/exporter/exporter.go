// Package exporter bridges TeamCache metrics into Prometheus. Samples
// arrive over the streaming websocket; when the stream is down, a REST poll
// behind a circuit breaker keeps the gauges fresh.
package exporter

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teamcache.client/internal/api"
	"teamcache.client/internal/core/circuitbreaker"
	"teamcache.client/internal/core/domain"
	"teamcache.client/internal/core/logger"
	"teamcache.client/internal/stream"
)

type Exporter struct {
	client   *api.Client
	monitor  *stream.Monitor
	breaker  *circuitbreaker.CircuitBreaker
	router   *chi.Mux
	interval time.Duration

	lastUpdate atomic.Int64 // unix nanos of the last recorded sample
}

func New(client *api.Client, wsURL string, interval time.Duration) *Exporter {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	e := &Exporter{
		client:   client,
		router:   chi.NewRouter(),
		interval: interval,
	}

	e.monitor = stream.NewMonitor(wsURL, stream.Handlers{
		OnSnapshot:   e.recordSnapshot,
		OnThroughput: e.recordThroughput,
		OnS3Health:   e.recordS3Health,
	})

	e.breaker = circuitbreaker.New("teamcache-poll")

	e.routes()
	return e
}

func (e *Exporter) routes() {
	e.router.Use(middleware.Logger)
	e.router.Use(middleware.Recoverer)
	e.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	e.router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	e.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

// Handler exposes the HTTP routes, mainly for tests.
func (e *Exporter) Handler() http.Handler {
	return e.router
}

// Run serves the exporter until the context is cancelled.
func (e *Exporter) Run(ctx context.Context, addr string) error {
	go e.streamLoop(ctx)
	go e.pollLoop(ctx)

	server := &http.Server{Addr: addr, Handler: e.router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("exporter listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// streamLoop keeps one websocket session at a time. A fixed pause between
// attempts, not a backoff.
func (e *Exporter) streamLoop(ctx context.Context) {
	for {
		err := e.monitor.Run(ctx, 0)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			scrapeErrors.WithLabelValues("stream").Inc()
			logger.Warn("metrics stream ended", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(e.interval):
		}
	}
}

// pollLoop fills gaps when the stream has gone quiet for more than two
// intervals.
func (e *Exporter) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.sinceLastUpdate() < 2*e.interval {
				continue
			}
			if err := e.pollOnce(ctx); err != nil {
				scrapeErrors.WithLabelValues("poll").Inc()
				logger.Warn("metrics poll failed", "error", err)
			}
		}
	}
}

// pollOnce fetches the current snapshot over REST, behind the breaker.
func (e *Exporter) pollOnce(ctx context.Context) error {
	return e.breaker.Execute(func() error {
		snap, err := e.client.Metrics(ctx)
		if err != nil {
			return err
		}
		e.recordSnapshot(*snap)
		return nil
	})
}

func (e *Exporter) recordSnapshot(snap domain.MetricsSnapshot) {
	if snap.LucidLink != nil {
		e.recordThroughput(*snap.LucidLink)
	}
	if snap.S3Health != nil {
		e.recordS3Health(*snap.S3Health)
	}
}

func (e *Exporter) recordThroughput(m domain.LucidLinkMetrics) {
	lucidLinkThroughput.Set(m.ThroughputMbps)
	e.touch()
}

func (e *Exporter) recordS3Health(h domain.S3Health) {
	if h.IsHealthy {
		s3Healthy.Set(1)
	} else {
		s3Healthy.Set(0)
	}
	s3Latency.Set(h.Latency)
	s3AvgLatency.Set(h.AverageLatency)
	e.touch()
}

func (e *Exporter) touch() {
	now := time.Now()
	e.lastUpdate.Store(now.UnixNano())
	lastUpdateTimestamp.Set(float64(now.Unix()))
}

func (e *Exporter) sinceLastUpdate() time.Duration {
	last := e.lastUpdate.Load()
	if last == 0 {
		return time.Duration(1<<62 - 1)
	}
	return time.Since(time.Unix(0, last))
}
