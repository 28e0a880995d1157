package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"docs-approval-backend/internal/api/grpc/interceptor"
	"docs-approval-backend/internal/logger"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "docs-approval"

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer serves grpc.health.v1.Health backed by a periodic database probe.
type HealthServer struct {
	health   *health.Server
	db       Pinger
	interval time.Duration
	timeout  time.Duration
}

func NewHealthServer(db Pinger, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	h := &HealthServer{
		health:   health.NewServer(),
		db:       db,
		interval: interval,
		timeout:  2 * time.Second,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// NewServer builds a gRPC server exposing the health service and reflection.
func (h *HealthServer) NewServer() *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(interceptor.Unary()))
	healthpb.RegisterHealthServer(s, h.health)
	reflection.Register(s)
	return s
}

// Probe pings the database once and publishes the result.
func (h *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.Ping(ctx); err != nil {
		logger.Warn("Database probe failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.set(status)
	return status
}

// Run probes until ctx is cancelled, then marks the server NOT_SERVING.
func (h *HealthServer) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

func (h *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
