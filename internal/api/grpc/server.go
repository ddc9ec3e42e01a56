package grpc

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"rentalshop-backend/internal/api/grpc/interceptor"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/security"
)

// ServiceName is the health-check service name reported for the backend
const ServiceName = "rentalshop.v1.Backend"

// Probe reports whether a dependency (usually the store) is reachable
type Probe func(ctx context.Context) error

// NewServer builds the gRPC server with auth and logging interceptors, the
// standard health service and reflection.
func NewServer(tm security.TokenManager, hs *health.Server) *grpc.Server {
	auth := interceptor.NewAuthInterceptor(tm)
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptor.UnaryLogging(), auth.Unary()),
		grpc.ChainStreamInterceptor(auth.Stream()),
	)
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)
	return server
}

// HealthReporter keeps the health server in sync with a probe
type HealthReporter struct {
	health   *health.Server
	probe    Probe
	interval time.Duration

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewHealthReporter(hs *health.Server, probe Probe, interval time.Duration) *HealthReporter {
	return &HealthReporter{
		health:   hs,
		probe:    probe,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Check runs the probe once and publishes the result
func (r *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	servingStatus := healthpb.HealthCheckResponse_SERVING
	if err := r.probe(ctx); err != nil {
		logger.Warn("Health probe failed", "error", err)
		servingStatus = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.health.SetServingStatus("", servingStatus)
	r.health.SetServingStatus(ServiceName, servingStatus)
	return servingStatus
}

// Start probes immediately and then on every interval until Stop
func (r *HealthReporter) Start() {
	r.Check(context.Background())
	r.started = true
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), r.interval)
				r.Check(ctx)
				cancel()
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop ends probing and marks every service as not serving
func (r *HealthReporter) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		if r.started {
			<-r.done
		}
		r.health.Shutdown()
	})
}
