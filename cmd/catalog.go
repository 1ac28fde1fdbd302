package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/redscout/redscout-cli/internal/model"
	"github.com/redscout/redscout-cli/internal/solutions"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and maintain the solution catalog",
	Long:  "The catalog is read-only at research time; these commands are the administrative path for extending it.",
}

// -- catalog list --

var catalogListCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List cataloged solutions, optionally for one category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		categories := make([]string, 0, len(catalog.Solutions))
		if len(args) == 1 {
			if _, ok := catalog.Solutions[args[0]]; !ok {
				return eris.Errorf("unknown category: %s", args[0])
			}
			categories = append(categories, args[0])
		} else {
			for c := range catalog.Solutions {
				categories = append(categories, c)
			}
			sort.Strings(categories)
		}

		formatCatalog(os.Stdout, catalog, categories)
		return nil
	},
}

// -- catalog add --

var catalogAddFlags struct {
	name        string
	description string
	website     string
	pricing     string
	rating      float64
	reviews     int
	category    string
	tags        []string
	out         string
}

var catalogAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a solution to the catalog file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if catalogAddFlags.name == "" {
			return eris.New("--name is required")
		}
		out := catalogAddFlags.out
		if out == "" {
			out = cfg.Research.CatalogPath
		}
		if out == "" {
			return eris.New("no catalog file to write: set --out or research.catalog_path")
		}

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		catalog.Add(model.Solution{
			Name:        catalogAddFlags.name,
			Description: catalogAddFlags.description,
			WebsiteURL:  catalogAddFlags.website,
			Pricing:     catalogAddFlags.pricing,
			Rating:      catalogAddFlags.rating,
			ReviewCount: catalogAddFlags.reviews,
			Category:    catalogAddFlags.category,
			SourceKind:  "manual",
			Tags:        catalogAddFlags.tags,
			LastUpdated: time.Now().UTC().Format("2006-01-02"),
		})

		if err := catalog.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Added %q to %s\n", catalogAddFlags.name, out)
		return nil
	},
}

func formatCatalog(out io.Writer, catalog *solutions.Catalog, categories []string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CATEGORY\tNAME\tRATING\tREVIEWS\tPRICING")
	for _, category := range categories {
		for _, s := range catalog.Solutions[category] {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%s\n",
				category, s.Name, s.Rating, s.ReviewCount, s.Pricing)
		}
	}
	_ = w.Flush()
}

func init() {
	catalogAddCmd.Flags().StringVar(&catalogAddFlags.name, "name", "", "solution name")
	catalogAddCmd.Flags().StringVar(&catalogAddFlags.description, "description", "", "short description")
	catalogAddCmd.Flags().StringVar(&catalogAddFlags.website, "website", "", "website URL")
	catalogAddCmd.Flags().StringVar(&catalogAddFlags.pricing, "pricing", "", "pricing text")
	catalogAddCmd.Flags().Float64Var(&catalogAddFlags.rating, "rating", 0, "rating in [0,5]")
	catalogAddCmd.Flags().IntVar(&catalogAddFlags.reviews, "reviews", 0, "review count")
	catalogAddCmd.Flags().StringVar(&catalogAddFlags.category, "category", "general", "catalog category")
	catalogAddCmd.Flags().StringSliceVar(&catalogAddFlags.tags, "tags", nil, "comma-separated tags")
	catalogAddCmd.Flags().StringVar(&catalogAddFlags.out, "out", "", "catalog file to write (default research.catalog_path)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	rootCmd.AddCommand(catalogCmd)
}
