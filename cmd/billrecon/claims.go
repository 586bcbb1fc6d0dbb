package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwhaley/billrecon/internal/books"
	"github.com/kwhaley/billrecon/internal/exitcode"
	"github.com/kwhaley/billrecon/internal/logging"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/pipeline"
	"github.com/kwhaley/billrecon/internal/store"
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Process an EDI 837 claim submission file",
	Long: "Parses an 837 file, persists the extracted claims, and creates invoices " +
		"through the accounting API, recording the returned invoice ids.",
	RunE: runClaims,
}

func init() {
	f := claimsCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to 837 file (required)")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Parse and persist without calling the accounting API")
	_ = claimsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(claimsCmd)
}

func runClaims(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)
	ctx := context.Background()

	validate := cfg.ValidateWithBooks
	if cfg.DryRun {
		validate = cfg.ValidateWithDSN
	}
	if err := validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := store.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	var bk *books.Client
	if !cfg.DryRun {
		bk = books.NewClient(cfg.BooksURL, cfg.BooksToken)
	}

	summary, err := pipeline.Claims(ctx, store.New(pool), bk, log, &cfg)
	if err != nil {
		exitPipeline(log, err)
	}

	fmt.Printf("Claims complete: %d claims (%s billed), %d charges, %d invoices (%.1fs)\n",
		summary.Claims, money.Format(summary.TotalBilled),
		summary.Charges, summary.InvoicesCreated, summary.DurationTotal.Seconds())
	return nil
}
