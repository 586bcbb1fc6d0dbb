package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwhaley/billrecon/internal/exitcode"
	"github.com/kwhaley/billrecon/internal/export"
	"github.com/kwhaley/billrecon/internal/logging"
	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export processed payments to a Parquet report",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&cfg.OutPath, "out", "", "Output Parquet path (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or BILLRECON_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := store.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	docs, err := store.New(pool).Find(ctx, store.Payments, nil)
	if err != nil {
		log.Error().Err(err).Msg("payment listing failed")
		os.Exit(exitcode.StoreError)
	}

	payments := make([]model.Edi835Payment, 0, len(docs))
	for _, doc := range docs {
		var rec model.PaymentRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			log.Error().Err(err).Msg("payment document decode failed")
			os.Exit(exitcode.StoreError)
		}
		payments = append(payments, rec.Payment)
	}

	rows := export.Flatten(payments)
	if err := export.WriteFile(cfg.OutPath, rows); err != nil {
		log.Error().Err(err).Msg("parquet export failed")
		os.Exit(exitcode.StoreError)
	}

	fmt.Printf("Export complete: %d rows written to %s\n", len(rows), cfg.OutPath)
	return nil
}
