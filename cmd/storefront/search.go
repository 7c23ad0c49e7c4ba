package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tair/storefront/internal/search"
	"github.com/tair/storefront/internal/storefront"
)

var (
	searchCategory string
	searchPage     string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by product name",
	Args:  cobra.MinimumNArgs(1),
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

		if searchPage != "" {
			page, err := storefront.NewPages(c, 0, 0).Get(searchPage)
			if err != nil {
				return err
			}
			c = page.Scope(c)
		}
		if searchCategory != "" && !c.HasCategory(searchCategory) {
			return fmt.Errorf("unknown category %q", searchCategory)
		}

		res := search.Filter(c, strings.Join(args, " "), searchCategory)
		out := cmd.OutOrStdout()
		if res.Empty() {
			fmt.Fprintln(out, "No results")
			return nil
		}

		for _, key := range res.Order {
			list := res.For(key)
			if len(list) == 0 {
				continue
			}
			cat, _ := c.Category(key)
			fmt.Fprintf(out, "%s (%d)\n", cat.Name, len(list))
			for _, p := range list {
				fmt.Fprintf(out, "  %-16s %-40s %8d\n", p.ID, p.Name, p.Price)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "restrict to one category")
	searchCmd.Flags().StringVar(&searchPage, "page", "", "restrict to the categories of a page")
	rootCmd.AddCommand(searchCmd)
}
