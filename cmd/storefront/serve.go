package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/storefront/docs"
	grpcDelivery "github.com/tair/storefront/internal/storefront/delivery/grpc"
	httpDelivery "github.com/tair/storefront/internal/storefront/delivery/http"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("storage", cfg.Storage.Driver).
		Str("catalog", cfg.Catalog.Source).
		Bool("kafka", cfg.Kafka.Enabled).
		Msg("Starting storefront")

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
				}
			}()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, cleanup, err := InitializeApp(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer app.Service.Close()

	go app.Service.Run(ctx, cfg.Session.SweepInterval)

	srv, errCh, err := startServers(ctx, app, reg)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Logger.Error().Err(err).Msg("Server failed")
		stop()
	}

	logger.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startServers binds the gRPC port before anything is started, then runs the
// gRPC and HTTP servers in the background. Errors of running servers are
// sent on the returned channel.
func startServers(ctx context.Context, app *App, reg *prometheus.Registry) (*http.Server, <-chan error, error) {
	cfg := app.Config
	errCh := make(chan error, 2)

	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to listen on gRPC port %s: %w", cfg.GRPC.Port, err)
		}
		grpcServer := grpcDelivery.NewServer(app.GRPCMetrics, app.GRPCProbes(), 0)
		go func() {
			if err := grpcServer.Serve(ctx, lis); err != nil {
				errCh <- err
			}
		}()
	}

	srv := newHTTPServer(app, reg)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTP.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return srv, errCh, nil
}

func newHTTPServer(app *App, reg *prometheus.Registry) *http.Server {
	cfg := app.Config

	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig()
	middlewareConfig.Tracing = cfg.Tracing.Enabled
	middlewareConfig.Timeout = cfg.HTTP.RequestTimeout
	middlewareConfig.Limiter = app.Limiter
	middlewareConfig.CORS.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	app.Handler.RegisterRoutes(router)
	app.Handler.RegisterHealthCheck(router, app.Checks...)
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      httpDelivery.SetupCORS(middlewareConfig)(router),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
}
