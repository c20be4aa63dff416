// Package health tracks whether the gateway's backing stores respond and
// publishes the result over HTTP and the gRPC health protocol.
package health

import (
	"context"
	"sync"
	"time"

	"catering-backoffice/internal/logger"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	ComponentDatabase = "database"
	ComponentCache    = "cache"

	StatusHealthy     = "healthy"
	StatusUnavailable = "unavailable"
	StatusDisabled    = "disabled"
	StatusDegraded    = "degraded"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Report struct {
	Overall    string                     `json:"overall_status"`
	Components map[string]ComponentStatus `json:"services"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// Monitor runs the dependency checks. The database is required; a nil cache
// is reported as disabled and does not degrade the service.
type Monitor struct {
	db     Pinger
	cache  Pinger
	server *grpchealth.Server

	mu   sync.RWMutex
	last Report
}

func NewMonitor(db, cache Pinger) *Monitor {
	return &Monitor{db: db, cache: cache, server: grpchealth.NewServer()}
}

// Check pings every component, records the outcome and mirrors it into the
// gRPC health server.
func (m *Monitor) Check(ctx context.Context) Report {
	r := Report{
		Overall:    StatusHealthy,
		Components: map[string]ComponentStatus{},
		Timestamp:  time.Now(),
	}

	r.Components[ComponentDatabase] = probe(ctx, m.db)
	if m.cache == nil {
		r.Components[ComponentCache] = ComponentStatus{Status: StatusDisabled, Message: "Report cache not configured"}
	} else {
		r.Components[ComponentCache] = probe(ctx, m.cache)
	}

	if r.Components[ComponentDatabase].Status != StatusHealthy {
		r.Overall = StatusUnavailable
	} else if r.Components[ComponentCache].Status == StatusUnavailable {
		r.Overall = StatusDegraded
	}

	m.publish(r)
	return r
}

// Last returns the most recent report without probing.
func (m *Monitor) Last() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Run re-checks every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		m.checkWithTimeout(ctx)
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

func (m *Monitor) checkWithTimeout(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	prev := m.Last().Overall
	if r := m.Check(ctx); r.Overall != prev && prev != "" {
		logger.Warn("health status changed", "from", prev, "to", r.Overall)
	}
}

func (m *Monitor) publish(r Report) {
	m.mu.Lock()
	m.last = r
	m.mu.Unlock()

	for name, c := range r.Components {
		m.server.SetServingStatus(name, servingStatus(c.Status))
	}
	overall := healthpb.HealthCheckResponse_SERVING
	if r.Overall == StatusUnavailable {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	m.server.SetServingStatus("", overall)
}

// Register exposes the monitor's health service on s.
func (m *Monitor) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, m.server)
}

// NewGRPCServer builds the gRPC server carrying the health service and
// reflection.
func NewGRPCServer(m *Monitor, opts ...grpc.ServerOption) *grpc.Server {
	s := grpc.NewServer(opts...)
	m.Register(s)
	reflection.Register(s)
	return s
}

func probe(ctx context.Context, p Pinger) ComponentStatus {
	if err := p.Ping(ctx); err != nil {
		return ComponentStatus{Status: StatusUnavailable, Message: err.Error()}
	}
	return ComponentStatus{Status: StatusHealthy, Message: "Responding"}
}

func servingStatus(status string) healthpb.HealthCheckResponse_ServingStatus {
	switch status {
	case StatusHealthy, StatusDisabled:
		return healthpb.HealthCheckResponse_SERVING
	default:
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
}
