package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kwhaley/billrecon/internal/books"
	"github.com/kwhaley/billrecon/internal/exitcode"
	"github.com/kwhaley/billrecon/internal/logging"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/pipeline"
	"github.com/kwhaley/billrecon/internal/store"
	"github.com/kwhaley/billrecon/internal/x12"
)

var remitCmd = &cobra.Command{
	Use:   "remit",
	Short: "Process an EDI 835 remittance file",
	Long: "Parses an 835 file (or a .zip wrapping one), validates every declared total " +
		"against its component sums, persists payments and journal entries, and posts " +
		"credit memos and payments to the accounting API.",
	RunE: runRemit,
}

var accountsFile string

func init() {
	f := remitCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to 835 file or zip archive (required)")
	f.StringVar(&accountsFile, "config", "", "Path to YAML config with journal account names")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Parse, validate, and persist without calling the accounting API")
	_ = remitCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(remitCmd)
}

func runRemit(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)
	ctx := context.Background()

	if accountsFile != "" {
		if err := cfg.LoadFromFile(accountsFile); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}

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

	summary, err := pipeline.Remit(ctx, store.New(pool), bk, log, &cfg)
	if err != nil {
		exitPipeline(log, err)
	}

	fmt.Printf("Remit complete: %d payments (%s paid), %d claims, %d charges (%.1fs)\n",
		summary.Payments, money.Format(summary.TotalPaid),
		summary.Claims, summary.Charges, summary.DurationTotal.Seconds())
	return nil
}

// exitPipeline logs a pipeline failure and exits with the code matching
// its phase and error kind.
func exitPipeline(log zerolog.Logger, err error) {
	var pe *pipeline.PipelineError
	if errors.As(err, &pe) {
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("pipeline failed")
		switch pe.Phase {
		case "parse", "read":
			if x12.KindOf(pe.Err) == x12.KindReconciliation {
				os.Exit(exitcode.ReconcileError)
			}
			os.Exit(exitcode.ParseError)
		case "persist":
			os.Exit(exitcode.StoreError)
		default:
			os.Exit(exitcode.APIError)
		}
	}
	log.Error().Err(err).Msg("pipeline failed")
	os.Exit(exitcode.ParseError)
}
