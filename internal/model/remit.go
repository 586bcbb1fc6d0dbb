package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType classifies a provider-level adjustment.
type AdjustmentType string

const (
	AdjustmentInterest       AdjustmentType = "interest"
	AdjustmentOriginationFee AdjustmentType = "origination fee"
)

// ProviderAdjustment is a reason-coded amount carried at the payment
// level, outside any claim. Amount holds the true dollar effect on the
// payment total: the raw PLB value is sign-flipped during parsing
// because the source encodes provider payments as negative and
// withholdings as positive.
type ProviderAdjustment struct {
	Type   AdjustmentType  `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Edi835ChargePayment is one remitted service line.
type Edi835ChargePayment struct {
	BillingCode           string          `json:"billing_code"`
	ServiceDate           time.Time       `json:"service_date"`
	Billed                decimal.Decimal `json:"billed"`
	Paid                  decimal.Decimal `json:"paid"`
	Units                 int             `json:"units"`
	ContractualAdjustment decimal.Decimal `json:"contractual_adjustment"`
	Coinsurance           decimal.Decimal `json:"coinsurance"`
}

// Edi835ClaimPayment is one claim within a remittance payment.
type Edi835ClaimPayment struct {
	AmountClaimed         decimal.Decimal       `json:"amount_claimed"`
	AmountPaid            decimal.Decimal       `json:"amount_paid"`
	PatientResponsibility decimal.Decimal       `json:"patient_responsibility"`
	FirstName             string                `json:"first_name"`
	LastName              string                `json:"last_name"`
	Charges               []Edi835ChargePayment `json:"charges"`
}

// ClientName returns "Last, First" for charge lookups and display.
func (c Edi835ClaimPayment) ClientName() string {
	return c.LastName + ", " + c.FirstName
}

// Edi835Payment is one remittance transaction set. Instances are built
// fresh per file run, validated once at the end of the scan, and
// treated as immutable afterwards.
type Edi835Payment struct {
	Amount      decimal.Decimal      `json:"amount"`
	Date        time.Time            `json:"date"`
	Reference   string               `json:"reference"`
	PayerName   string               `json:"payer_name"`
	Claims      []Edi835ClaimPayment `json:"claims"`
	Adjustments []ProviderAdjustment `json:"adjustments"`
}
