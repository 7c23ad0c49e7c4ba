package grpc

import (
	"context"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/storefront/pkg/logger"
)

// ServiceName is the health service name reported for the shop
const ServiceName = "storefront"

// Probe checks one dependency of the shop
type Probe func(ctx context.Context) error

// Server is the gRPC endpoint of the shop. It serves the standard health
// protocol, kept up to date from the probes, and reflection.
type Server struct {
	server   *grpc.Server
	health   *health.Server
	probes   map[string]Probe
	interval time.Duration
}

// NewServer creates the gRPC server with tracing, metrics and logging
func NewServer(metrics *Metrics, probes map[string]Probe, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(metrics.UnaryInterceptor),
		grpc.ChainStreamInterceptor(metrics.StreamInterceptor),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &Server{
		server:   srv,
		health:   hs,
		probes:   probes,
		interval: interval,
	}
	s.check(context.Background())
	return s
}

// Serve accepts connections on lis and refreshes the health status until ctx
// is done; the server is then stopped gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go s.watch(ctx)
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.server.GracefulStop()
	}()

	logger.Logger.Info().
		Str("addr", lis.Addr().String()).
		Msg("gRPC server started")
	return s.server.Serve(lis)
}

// Stop stops the server at once
func (s *Server) Stop() {
	s.server.Stop()
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check sets each probe's status and the overall status of the shop
func (s *Server) check(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, probe := range s.probes {
		st := healthpb.HealthCheckResponse_SERVING
		if err := probe(ctx); err != nil {
			logger.Warn(ctx).Err(err).Str("dependency", name).Msg("Dependency not serving")
			st = healthpb.HealthCheckResponse_NOT_SERVING
			overall = st
		}
		s.health.SetServingStatus(name, st)
	}
	s.health.SetServingStatus(ServiceName, overall)
	s.health.SetServingStatus("", overall)
}
