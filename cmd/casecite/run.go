package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a3tai/casecite/internal/store"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process every judgment PDF under --dir",
		Long: `Run walks --dir for PDFs in path order. For each judgment with a neutral
citation it stores the header in main_paper and upserts its citations.
Documents that fail are logged and counted; the batch carries on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			st, lookup, closeStores, err := a.openStores(ctx)
			if err != nil {
				return err
			}
			defer closeStores()

			p, _, err := a.newPipeline(a.cfg.InputDir, lookup, st)
			if err != nil {
				return err
			}

			summary, err := p.Run(ctx, a.cfg.InputDir)
			if summary != nil {
				fmt.Fprintln(cmd.OutOrStdout(), summary)
			}
			return err
		},
	}
}

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file.pdf>",
		Short: "Show what run would store for one judgment, without writing",
		Long: `Preview extracts one judgment and prints the metadata, citations and every
candidate considered as JSON. The file may live anywhere; it is not required to
be under --dir. Nothing is written to the database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			refs, err := store.Open(a.cfg.ReporterDB(), store.Options{ReporterTable: a.cfg.ReporterTable})
			if err != nil {
				return err
			}
			defer refs.Close()

			lookup, err := refs.LoadLookup(ctx)
			if err != nil {
				return err
			}

			p, _, err := a.newPipeline(filepath.Dir(path), lookup, nil)
			if err != nil {
				return err
			}

			result, err := p.Preview(ctx, path)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
