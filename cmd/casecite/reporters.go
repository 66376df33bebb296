package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a3tai/casecite/internal/reporters"
	"github.com/a3tai/casecite/internal/store"
)

func newReportersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reporters",
		Short: "Manage the reporter reference table",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Rebuild the reporter table from a spreadsheet (--source)",
		Long: `Build reads the reporter spreadsheet (.xlsx or .csv) and replaces the reporter
table with the result. The header row must name a Reporter column; Count,
Jurisdiction, "Need to Check" (or NeedToCheck) and Reporter_cleaned are optional.
Rows whose reporters differ only in punctuation, case or accents are merged into
the row with the highest count, and their counts are summed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.ReporterSource == "" {
				return errors.New("--source is required")
			}

			records, err := reporters.ReadFile(a.cfg.ReporterSource)
			if err != nil {
				return err
			}
			consolidated := reporters.Consolidate(records)

			st, err := store.Open(a.cfg.ReporterDB(), store.Options{ReporterTable: a.cfg.ReporterTable})
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ReplaceReporters(cmd.Context(), consolidated); err != nil {
				return err
			}

			a.logger.Info().
				Str("source", a.cfg.ReporterSource).
				Str("table", a.cfg.ReporterTable).
				Int("rows", len(records)).
				Int("reporters", len(consolidated)).
				Msg("reporter table rebuilt")
			fmt.Fprintf(cmd.OutOrStdout(), "%d reporters written to %s (%d source rows)\n",
				len(consolidated), a.cfg.ReporterTable, len(records))
			return nil
		},
	})
	return cmd
}
