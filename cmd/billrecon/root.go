package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kwhaley/billrecon/internal/config"
	"github.com/kwhaley/billrecon/internal/exitcode"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "billrecon",
	Short: "Healthcare billing reconciliation against the accounting system",
	Long: "Parses EDI 835 remittance and 837 claim files, reconciles every declared " +
		"total against its component sums, and posts the results to the accounting API " +
		"and the local document store.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("BILLRECON_DB_URL"), "Postgres connection string (or set BILLRECON_DB_URL)")
	pf.StringVar(&cfg.BooksURL, "books-url", os.Getenv("BILLRECON_BOOKS_URL"), "Accounting API base URL (or set BILLRECON_BOOKS_URL)")
	pf.StringVar(&cfg.BooksToken, "books-token", os.Getenv("BILLRECON_BOOKS_TOKEN"), "Accounting API token (or set BILLRECON_BOOKS_TOKEN)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
}

func main() {
	cfg.Accounts = config.DefaultAccounts()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
