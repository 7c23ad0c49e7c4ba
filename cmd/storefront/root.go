package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tair/storefront/internal/config"
	"github.com/tair/storefront/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront backend: catalog, search and per-session carts",
	Long: `Storefront serves the shop catalog, a debounced category-scoped search and
a shopping cart per browser session, mirrored to a key/value storage after
every change.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "storefront.yml", "config file path")
}

// loadConfig reads and validates the configuration, then sets up logging
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.Tracing.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.Log.Level)
	logger.Logger.Debug().
		Str("command", cmd.Name()).
		Str("config", cfgFile).
		Str("environment", cfg.Environment).
		Msg("Configuration loaded")
	return cfg, nil
}
