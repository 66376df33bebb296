package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/a3tai/casecite/internal/config"
	"github.com/a3tai/casecite/internal/logging"
	"github.com/a3tai/casecite/internal/pdf"
	"github.com/a3tai/casecite/internal/pipeline"
	"github.com/a3tai/casecite/internal/reporters"
	"github.com/a3tai/casecite/internal/store"
)

// app carries what the subcommands share once flags are parsed.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	stdio  bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "casecite",
		Short: "Index the authorities cited in judgment PDFs",
		Long: `casecite reads judgment PDFs, extracts the judgment header and every cited
authority, resolves each citation against a reporter reference table and
upserts the results into SQLite.

Build the reporter table once, then process a directory:
  casecite reporters build --source reporters.xlsx --db citations.db
  casecite run --dir ./judgments --db citations.db`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCmd(a),
		newPreviewCmd(a),
		newReportersCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// load resolves the configuration and the logger for cmd.
func (a *app) load(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if version != "dev" {
		cfg.Version = version
	}

	a.cfg = cfg
	a.stdio = cmd.Name() == "serve"
	a.logger = logging.New(cfg.LogLevel, a.stdio)
	if cfg.IsDebug() && !a.stdio {
		a.logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	}
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// openStores opens the citation database and returns the reporter lookup read
// from the reporter database. The returned close function releases both.
func (a *app) openStores(ctx context.Context) (*store.Store, *reporters.Lookup, func(), error) {
	opts := store.Options{ReporterTable: a.cfg.ReporterTable}

	st, err := store.Open(a.cfg.DBPath, opts)
	if err != nil {
		return nil, nil, nil, err
	}

	refs := st
	if a.cfg.ReporterDB() != a.cfg.DBPath {
		refs, err = store.Open(a.cfg.ReporterDB(), opts)
		if err != nil {
			st.Close()
			return nil, nil, nil, err
		}
		defer refs.Close()
	}

	lookup, err := refs.LoadLookup(ctx)
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}
	if lookup.Len() == 0 {
		st.Close()
		return nil, nil, nil, fmt.Errorf("%w: table %s in %s has no rows, run 'casecite reporters build --source <file>' first",
			pipeline.ErrEmptyLookup, a.cfg.ReporterTable, a.cfg.ReporterDB())
	}

	return st, lookup, func() { st.Close() }, nil
}

// newPipeline wires a PDF service confined to root, the lookup and the store
// into a pipeline.
func (a *app) newPipeline(root string, lookup *reporters.Lookup, st pipeline.DocumentStore) (*pipeline.Pipeline, *pdf.Service, error) {
	pdfService, err := pdf.NewService(a.cfg.MaxFileSize, root)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.New(pipeline.Options{
		Pages:  pdfService,
		Finder: pdfService,
		Lookup: lookup,
		Store:  st,
		Logger: a.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return p, pdfService, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "casecite\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
