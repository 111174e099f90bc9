// Package health polls the backend and publishes whether the terminal can
// reach it.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/metrics"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the grpc health service that mirrors backend reachability.
const ServiceName = "omnipos.pos.Backend"

type Status string

const (
	StatusChecking     Status = "checking"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Pinger reports transport failures only. A backend that answers with any
// HTTP status is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Interval time.Duration
	Timeout  time.Duration
}

type Report struct {
	Status    Status    `json:"status"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

type Monitor struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	grpc     *health.Server
	logger   logger.ZapLogger

	mu     sync.RWMutex
	report Report
	subs   map[int]func(Status)
	nextID int

	runMu     sync.Mutex
	scheduler *gocron.Scheduler
}

// NewMonitor starts in the checking state. hs may be nil.
func NewMonitor(p Pinger, cfg Config, hs *health.Server, log logger.ZapLogger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	m := &Monitor{
		pinger:   p,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		grpc:     hs,
		logger:   log,
		report:   Report{Status: StatusChecking},
		subs:     make(map[int]func(Status)),
	}
	m.publish(StatusChecking)
	return m
}

// Start checks at once and then every interval until Stop or ctx ends.
func (m *Monitor) Start(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.scheduler != nil {
		return nil
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(m.interval).Do(func() { m.Check(ctx) }); err != nil {
		return err
	}
	s.StartAsync()
	m.scheduler = s
	m.logger.Info("backend health monitor started", zap.Duration("interval", m.interval))

	go func() {
		<-ctx.Done()
		m.Stop()
	}()
	return nil
}

func (m *Monitor) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.scheduler == nil {
		return
	}
	m.scheduler.Stop()
	m.scheduler = nil
	m.logger.Info("backend health monitor stopped")
}

// Check pings the backend once with the configured timeout.
func (m *Monitor) Check(ctx context.Context) Status {
	if ctx.Err() != nil {
		return m.Status()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(ctx)
	next := Report{Status: StatusConnected, CheckedAt: time.Now()}
	if err != nil {
		next.Status = StatusDisconnected
		next.Error = err.Error()
	}

	m.mu.Lock()
	prev := m.report.Status
	m.report = next
	m.mu.Unlock()

	if prev != next.Status {
		if err != nil {
			m.logger.Warn("backend unreachable", zap.Error(err))
		} else {
			m.logger.Info("backend reachable")
		}
		m.publish(next.Status)
	}
	return next.Status
}

func (m *Monitor) publish(s Status) {
	metrics.SetConnected(s == StatusConnected)
	if m.grpc != nil {
		m.grpc.SetServingStatus(ServiceName, servingStatus(s))
	}

	m.mu.RLock()
	subs := make([]func(Status), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()
	for _, fn := range subs {
		fn(s)
	}
}

func servingStatus(s Status) healthpb.HealthCheckResponse_ServingStatus {
	switch s {
	case StatusConnected:
		return healthpb.HealthCheckResponse_SERVING
	case StatusDisconnected:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.report.Status
}

func (m *Monitor) Report() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.report
}

// Subscribe calls fn on every status change. The returned func removes it.
func (m *Monitor) Subscribe(fn func(Status)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}
