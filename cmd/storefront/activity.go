package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tair/storefront/internal/activity"
	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/logger"
)

var (
	activityMetricsAddr string
	activityReport      time.Duration
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Consume cart events and expose shop-wide activity metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(cfg.Kafka.Brokers) == 0 {
			return errors.New("kafka.brokers is required")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		projector := activity.NewProjector(reg)

		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.Topic})
		if err != nil {
			return err
		}
		defer consumer.Close()
		projector.Register(consumer)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv := &http.Server{Addr: activityMetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Logger.Error().Err(err).Msg("Metrics server failed")
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		go reportTop(ctx, projector, activityReport)

		logger.Logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Str("metrics_addr", activityMetricsAddr).
			Msg("Activity projector started")

		if err := consumer.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()
		logger.Logger.Info().Msg("Shutting down activity projector...")
		return nil
	},
}

func reportTop(ctx context.Context, projector *activity.Projector, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i, pc := range projector.Top(5) {
				logger.Logger.Info().
					Int("rank", i+1).
					Str("product", pc.ProductKey).
					Str("name", pc.Name).
					Int("added", pc.Added).
					Msg("Most added products")
			}
		}
	}
}

func init() {
	activityCmd.Flags().StringVar(&activityMetricsAddr, "metrics-addr", ":9102", "address of the metrics endpoint")
	activityCmd.Flags().DurationVar(&activityReport, "report", time.Minute, "interval of the top products log, 0 to disable")
	rootCmd.AddCommand(activityCmd)
}
