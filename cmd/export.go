package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/redscout/redscout-cli/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a completed run's report to an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}
		if run.Report == nil {
			return eris.Errorf("run %s has no report (status %s)", run.ID, run.Status)
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("redscout-%s.xlsx", run.ID)
		}
		if err := export.WriteXLSX(run.Report, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported run %s to %s\n", run.ID, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default redscout-<run-id>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
