package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile_MergesAccounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billrecon.yaml")
	content := `accounts:
  cash: "1010 Operating Cash"
  interest_income: "7200 Remittance Interest"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg Config
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Accounts.Cash != "1010 Operating Cash" {
		t.Errorf("cash = %q, want override", cfg.Accounts.Cash)
	}
	if cfg.Accounts.InterestIncome != "7200 Remittance Interest" {
		t.Errorf("interest income = %q, want override", cfg.Accounts.InterestIncome)
	}
	// Unset entries keep their defaults.
	if want := DefaultAccounts().AccountsReceivable; cfg.Accounts.AccountsReceivable != want {
		t.Errorf("accounts receivable = %q, want default %q", cfg.Accounts.AccountsReceivable, want)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	var cfg Config
	if err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("accounts: [not, a, map]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := cfg.LoadFromFile(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when --file is unset")
	}

	cfg.FilePath = filepath.Join(t.TempDir(), "nope.835")
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when the file does not exist")
	}

	path := filepath.Join(t.TempDir(), "remit.835")
	if err := os.WriteFile(path, []byte("ISA~"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.FilePath = path
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	if err := cfg.ValidateWithDSN(); err == nil {
		t.Error("expected error when DSN is unset")
	}
	cfg.DSN = "postgres://localhost:5432/billrecon"
	if err := cfg.ValidateWithDSN(); err != nil {
		t.Errorf("ValidateWithDSN: %v", err)
	}

	if err := cfg.ValidateWithBooks(); err == nil {
		t.Error("expected error when books URL is unset")
	}
	cfg.BooksURL = "http://localhost:9090"
	if err := cfg.ValidateWithBooks(); err != nil {
		t.Errorf("ValidateWithBooks: %v", err)
	}
}
