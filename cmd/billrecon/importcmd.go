package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwhaley/billrecon/internal/exitcode"
	"github.com/kwhaley/billrecon/internal/logging"
	"github.com/kwhaley/billrecon/internal/pipeline"
	"github.com/kwhaley/billrecon/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a flat CSV file into the document store",
	RunE:  runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to CSV file (required)")
	f.StringVar(&cfg.ImportKind, "kind", "", "Import kind: appointments, charges, payers, or services (required)")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("kind")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := store.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := pipeline.Import(ctx, store.New(pool), log, &cfg)
	if err != nil {
		exitPipeline(log, err)
	}

	fmt.Printf("Import complete: %d rows imported, %d skipped (%.1fs)\n",
		summary.RowsImported, summary.RowsSkipped, summary.DurationTotal.Seconds())
	return nil
}
