package main

import (
	"fmt"

	"github.com/spf13/cobra"

	catalog "github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/catalog/repository"
	"github.com/tair/storefront/internal/config"
	"github.com/tair/storefront/pkg/database"
	"github.com/tair/storefront/pkg/logger"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage the catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List categories, or the products of one category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		repo, cleanup, err := ProvideCatalogRepository(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		c, err := ProvideCatalog(cmd.Context(), repo)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, cat := range c.Categories() {
				fmt.Fprintf(out, "%-14s %-24s %d products\n", cat.Link, cat.Name, len(c.Products(cat.Link)))
			}
			return nil
		}

		if !c.HasCategory(args[0]) {
			return fmt.Errorf("%w: %s", catalog.ErrCategoryNotFound, args[0])
		}
		for _, p := range c.Products(args[0]) {
			fmt.Fprintf(out, "%-16s %-40s %8d\n", p.ID, p.Name, p.Price)
		}
		return nil
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in catalog to PostgreSQL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Catalog.Source != config.CatalogPostgres {
			logger.Logger.Warn().Str("source", cfg.Catalog.Source).Msg("Catalog source is not postgres; seeding anyway")
		}

		db, err := database.NewGormConnection(cfg.Database)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		defer sqlDB.Close()

		repo := repository.NewGormCatalogRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		c := catalog.Default()
		if err := repo.Seed(cmd.Context(), c); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories and %d products\n", len(c.Keys()), len(c.All()))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd, catalogSeedCmd)
	rootCmd.AddCommand(catalogCmd)
}
