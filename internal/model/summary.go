package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemitSummary captures metrics from a single 835 processing run.
type RemitSummary struct {
	FilePath         string
	BatchID          string
	Payments         int
	Claims           int
	Charges          int
	TotalPaid        decimal.Decimal
	InvoicesCredited int
	DurationParse    time.Duration
	DurationPersist  time.Duration
	DurationPost     time.Duration
	DurationTotal    time.Duration
}

// ClaimsSummary captures metrics from a single 837 processing run.
type ClaimsSummary struct {
	FilePath        string
	BatchID         string
	Claims          int
	Charges         int
	TotalBilled     decimal.Decimal
	InvoicesCreated int
	DurationParse   time.Duration
	DurationPersist time.Duration
	DurationPost    time.Duration
	DurationTotal   time.Duration
}

// ImportSummary captures metrics from a CSV import run.
type ImportSummary struct {
	FilePath      string
	Kind          string
	RowsRead      int64
	RowsImported  int64
	RowsSkipped   int64
	DurationTotal time.Duration
}
