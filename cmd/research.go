package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/redscout/redscout-cli/internal/export"
	"github.com/redscout/redscout-cli/internal/model"
	"github.com/redscout/redscout-cli/internal/store"
)

var (
	researchJSON   bool
	researchExport string
	researchNoSave bool
)

var researchCmd = &cobra.Command{
	Use:   "research <query>",
	Short: "Research community problems for an audience",
	Long:  `Runs the full pipeline for a free-text query, e.g. "problems of shopify store owners this week".`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		var st store.Store
		if !researchNoSave {
			s, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			if err := s.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			st = s
		}

		eng, err := initEngine(st)
		if err != nil {
			return err
		}

		report, err := eng.Research(ctx, query)
		if err != nil {
			if model.IsInputValidation(err) {
				fmt.Fprintln(os.Stderr, err.Error())
				return eris.New("research rejected")
			}
			return eris.Wrap(err, "research")
		}

		if researchExport != "" {
			if err := export.WriteXLSX(report, researchExport); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Exported report to %s\n", researchExport)
		}

		if researchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		formatReport(os.Stdout, report)
		return nil
	},
}

// formatReport prints the human-readable view of a report.
func formatReport(w io.Writer, report *model.Report) {
	fmt.Fprintln(w, report.Summary)
	fmt.Fprintf(w, "\nAudience: %s | Intent: %s | Window: %s | Confidence: %.2f\n",
		report.ParsedQuery.TargetAudience,
		report.ParsedQuery.Intent,
		report.ParsedQuery.TimeWindow,
		report.OverallConfidence,
	)

	for i, c := range report.Clusters {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, c.Title)
		fmt.Fprintf(w, "   %s\n", c.Description)
		fmt.Fprintf(w, "   threads=%d severity=%.2f trend=%s opportunity=%.2f market=%s\n",
			c.ThreadCount, c.Severity, c.Trend, c.OpportunityScore, c.MarketSize)
		if len(c.Solutions) > 0 {
			names := make([]string, 0, len(c.Solutions))
			for _, s := range c.Solutions {
				names = append(names, s.Name)
			}
			fmt.Fprintf(w, "   existing solutions: %s\n", strings.Join(names, ", "))
		}
	}

	if len(report.Insights.ActionableRecommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range report.Insights.ActionableRecommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

func init() {
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "print the full report as JSON")
	researchCmd.Flags().StringVar(&researchExport, "export", "", "also write the report to an xlsx file")
	researchCmd.Flags().BoolVar(&researchNoSave, "no-save", false, "skip recording the run in the store")
	rootCmd.AddCommand(researchCmd)
}
