package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Edi837Charge is one submitted service line.
type Edi837Charge struct {
	BillingCode string          `json:"billing_code"`
	ServiceDate time.Time       `json:"service_date"`
	Billed      decimal.Decimal `json:"billed"`
	Units       int             `json:"units"`
}

// Edi837Claim is one submitted claim extracted from the 837 loop tree.
// No reconciliation invariants apply; this is hierarchical extraction
// only.
type Edi837Claim struct {
	PayerID    string          `json:"payer_id"`
	BilledDate time.Time       `json:"billed_date"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Billed     decimal.Decimal `json:"billed"`
	Charges    []Edi837Charge  `json:"charges"`
}

// ClientName returns "Last, First" for charge lookups and display.
func (c Edi837Claim) ClientName() string {
	return c.LastName + ", " + c.FirstName
}
