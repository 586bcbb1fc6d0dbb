package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kwhaley/billrecon/internal/reconcile"
)

// Config holds all runtime configuration for a billrecon run.
type Config struct {
	DSN        string
	FilePath   string
	OutPath    string
	ImportKind string
	LogFormat  string // "text" or "json"
	Verbose    bool
	DryRun     bool

	BooksURL   string
	BooksToken string

	Accounts reconcile.AccountMap
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Accounts reconcile.AccountMap `yaml:"accounts"`
}

// DefaultAccounts is the ledger mapping used when no config file
// overrides it.
func DefaultAccounts() reconcile.AccountMap {
	return reconcile.AccountMap{
		Cash:                  "1000 Cash",
		AccountsReceivable:    "1200 Accounts Receivable",
		ContractualAllowance:  "4910 Contractual Allowance",
		PatientResponsibility: "1210 Patient Receivable",
		InterestIncome:        "7100 Interest Income",
		FeeExpense:            "6310 Processing Fees",
	}
}

// LoadFromFile reads a YAML config file and merges its account names
// into Config. Empty entries keep their defaults.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if c.Accounts == (reconcile.AccountMap{}) {
		c.Accounts = DefaultAccounts()
	}
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&c.Accounts.Cash, yc.Accounts.Cash)
	merge(&c.Accounts.AccountsReceivable, yc.Accounts.AccountsReceivable)
	merge(&c.Accounts.ContractualAllowance, yc.Accounts.ContractualAllowance)
	merge(&c.Accounts.PatientResponsibility, yc.Accounts.PatientResponsibility)
	merge(&c.Accounts.InterestIncome, yc.Accounts.InterestIncome)
	merge(&c.Accounts.FeeExpense, yc.Accounts.FeeExpense)
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or BILLRECON_DB_URL is required")
	}
	return nil
}

// ValidateWithBooks additionally requires the accounting API endpoint.
func (c *Config) ValidateWithBooks() error {
	if err := c.ValidateWithDSN(); err != nil {
		return err
	}
	if c.BooksURL == "" {
		return fmt.Errorf("--books-url or BILLRECON_BOOKS_URL is required")
	}
	return nil
}
