package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"teamcache.client/internal/core/domain"
	"teamcache.client/internal/core/logger"
)

// Handlers receive typed updates from the metrics channel. Nil handlers are
// skipped.
type Handlers struct {
	OnSnapshot   func(domain.MetricsSnapshot)
	OnThroughput func(domain.LucidLinkMetrics)
	OnS3Health   func(domain.S3Health)
}

// Monitor consumes the real-time metrics websocket and maintains the latest
// merged snapshot. Partial updates (throughput, health) overwrite only their
// side of the snapshot.
type Monitor struct {
	wsURL    string
	dialer   *websocket.Dialer
	handlers Handlers

	mu     sync.RWMutex
	latest domain.MetricsSnapshot
}

func NewMonitor(wsURL string, handlers Handlers) *Monitor {
	return &Monitor{
		wsURL:    wsURL,
		dialer:   websocket.DefaultDialer,
		handlers: handlers,
	}
}

// Latest returns the most recently merged metrics snapshot.
func (m *Monitor) Latest() domain.MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Run connects to the metrics websocket and consumes messages until the
// context is cancelled, the optional duration elapses, or the connection
// closes. A duration of zero means run until cancelled. Quiet periods on the
// connection are fine; reads block in a separate goroutine so the duration
// and ctx checks stay responsive.
func (m *Monitor) Run(ctx context.Context, duration time.Duration) error {
	conn, _, err := m.dialer.DialContext(ctx, m.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("connected to metrics websocket", "url", m.wsURL)

	done := make(chan struct{})
	defer close(done)

	msgs := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(msgs)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case msgs <- data:
			case <-done:
				return
			}
		}
	}()

	var expired <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-expired:
			return nil
		case data, ok := <-msgs:
			if !ok {
				err := <-readErr
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return err
			}

			var msg domain.StreamMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				logger.Warn("dropping malformed stream message", "error", err)
				continue
			}

			m.dispatch(msg)
		}
	}
}

func (m *Monitor) dispatch(msg domain.StreamMessage) {
	switch msg.Type {
	case domain.StreamTypeMetrics:
		m.mu.Lock()
		m.latest = domain.MetricsSnapshot{LucidLink: msg.LucidLink, S3Health: msg.S3Health}
		snapshot := m.latest
		m.mu.Unlock()
		if m.handlers.OnSnapshot != nil {
			m.handlers.OnSnapshot(snapshot)
		}
	case domain.StreamTypeLucidLinkStats:
		if msg.LucidLink == nil {
			return
		}
		m.mu.Lock()
		m.latest.LucidLink = msg.LucidLink
		m.mu.Unlock()
		if m.handlers.OnThroughput != nil {
			m.handlers.OnThroughput(*msg.LucidLink)
		}
	case domain.StreamTypeS3Health:
		if msg.S3Health == nil {
			return
		}
		m.mu.Lock()
		m.latest.S3Health = msg.S3Health
		m.mu.Unlock()
		if m.handlers.OnS3Health != nil {
			m.handlers.OnS3Health(*msg.S3Health)
		}
	default:
		logger.Debug("ignoring unknown stream message type", "type", msg.Type)
	}
}
