package grpc

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tair/storefront/pkg/logger"
)

const (
	callUnary  = "unary"
	callStream = "stream"
)

// Metrics holds the gRPC server collectors
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics creates the gRPC collectors and registers them with reg when it is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_grpc_requests_total",
				Help: "Total number of gRPC calls by method, type and status",
			},
			[]string{"method", "type", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "storefront_grpc_request_duration_seconds",
				Help: "Duration of gRPC calls in seconds; streams are measured until they end",
				// health watches stay open for minutes
				Buckets: append(prometheus.DefBuckets, 30, 120, 600),
			},
			[]string{"method", "type"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_grpc_errors_total",
				Help: "Total number of gRPC calls that ended with a non-OK status",
			},
			[]string{"method", "error_code"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requestsTotal, m.requestDuration, m.errorsTotal)
	}
	return m
}

// observe records one finished call and logs it
func (m *Metrics) observe(ctx context.Context, method, callType string, start time.Time, err error) {
	duration := time.Since(start)
	code := status.Code(err)

	m.requestsTotal.WithLabelValues(method, callType, code.String()).Inc()
	m.requestDuration.WithLabelValues(method, callType).Observe(duration.Seconds())

	if code == codes.OK {
		logger.Debug(ctx).
			Str("method", method).
			Str("type", callType).
			Dur("duration", duration).
			Msg("gRPC call completed")
		return
	}

	m.errorsTotal.WithLabelValues(method, code.String()).Inc()
	event := logger.Warn(ctx)
	if code == codes.Internal || code == codes.Unknown {
		event = logger.Error(ctx)
	}
	event.
		Err(err).
		Str("method", method).
		Str("type", callType).
		Str("grpc_status", code.String()).
		Dur("duration", duration).
		Msg("gRPC call failed")
}

// UnaryInterceptor measures and logs unary calls
func (m *Metrics) UnaryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	m.observe(ctx, info.FullMethod, callUnary, start, err)
	return resp, err
}

// StreamInterceptor measures and logs streams such as health watches and
// reflection
func (m *Metrics) StreamInterceptor(
	srv any,
	ss grpc.ServerStream,
	info *grpc.StreamServerInfo,
	handler grpc.StreamHandler,
) error {
	start := time.Now()
	err := handler(srv, ss)
	m.observe(ss.Context(), info.FullMethod, callStream, start, err)
	return err
}
