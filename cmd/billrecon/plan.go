package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kwhaley/billrecon/internal/edi835"
	"github.com/kwhaley/billrecon/internal/edi837"
	"github.com/kwhaley/billrecon/internal/exitcode"
	"github.com/kwhaley/billrecon/internal/logging"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/x12"
)

var planType string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run parse and validation (no writes)",
	Long: "Parses an EDI file, runs the full validation cascade, and prints what would " +
		"be processed. Nothing is persisted and no remote calls are made.",
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to EDI file (required)")
	f.StringVar(&planType, "type", "835", "Transaction set type: 835 or 837")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	switch planType {
	case "835":
		plan835(log)
	case "837":
		plan837(log)
	default:
		log.Error().Str("type", planType).Msg("unknown transaction set type")
		os.Exit(exitcode.UsageError)
	}
	return nil
}

func plan835(log zerolog.Logger) {
	payments, err := edi835.NewReader().ReadFile(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("remittance validation failed")
		if x12.KindOf(err) == x12.KindReconciliation {
			os.Exit(exitcode.ReconcileError)
		}
		os.Exit(exitcode.ParseError)
	}

	fmt.Println("=== billrecon plan (835) ===")
	fmt.Printf("File: %s\n\n", cfg.FilePath)

	totalPaid := money.Zero
	var charges int64
	for _, p := range payments {
		fmt.Printf("Payment %s from %s on %s: %s\n",
			p.Reference, p.PayerName, x12.FormatDate(p.Date), money.FormatCurrency(p.Amount, "USD"))
		for _, cl := range p.Claims {
			fmt.Printf("  Claim %-24s claimed %10s  paid %10s  patient %10s  (%d charges)\n",
				cl.ClientName(), money.Format(cl.AmountClaimed), money.Format(cl.AmountPaid),
				money.Format(cl.PatientResponsibility), len(cl.Charges))
			charges += int64(len(cl.Charges))
		}
		for _, adj := range p.Adjustments {
			fmt.Printf("  Provider adjustment (%s): %s\n", adj.Type, money.Format(adj.Amount))
		}
		totalPaid = totalPaid.Add(p.Amount)
	}

	fmt.Printf("\nTotal paid:         %s\n", money.Format(totalPaid))
	if charges > 0 {
		fmt.Printf("Average per charge: %s\n", money.Avg(totalPaid, charges).StringFixed(2))
	}
	fmt.Println("Validation cascade: OK")
}

func plan837(log zerolog.Logger) {
	claims, err := edi837.NewReader().ReadFile(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("claim file parse failed")
		os.Exit(exitcode.ParseError)
	}

	fmt.Println("=== billrecon plan (837) ===")
	fmt.Printf("File: %s\n\n", cfg.FilePath)

	totalBilled := money.Zero
	for _, c := range claims {
		fmt.Printf("Claim %-24s payer %-12s billed %10s on %s (%d charges)\n",
			c.ClientName(), c.PayerID, money.Format(c.Billed),
			x12.FormatDate(c.BilledDate), len(c.Charges))
		totalBilled = totalBilled.Add(c.Billed)
	}
	fmt.Printf("\nTotal billed: %s\n", money.Format(totalBilled))
}
