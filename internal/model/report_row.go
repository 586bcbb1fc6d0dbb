package model

// PaymentReportRow is the flattened, Parquet-ready form of one remitted
// charge. Money is integer cents; dates are CCYYMMDD strings matching
// the source files.
type PaymentReportRow struct {
	PaymentReference string `parquet:"payment_reference"`
	PayerName        string `parquet:"payer_name"`
	PaymentDate      string `parquet:"payment_date"`

	ClientName string `parquet:"client_name"`

	BillingCode string `parquet:"billing_code"`
	ServiceDate string `parquet:"service_date,optional"`
	Units       int32  `parquet:"units"`

	BilledCents      int64 `parquet:"billed_cents"`
	PaidCents        int64 `parquet:"paid_cents"`
	ContractualCents int64 `parquet:"contractual_cents"`
	CoinsuranceCents int64 `parquet:"coinsurance_cents"`

	ClaimClaimedCents int64 `parquet:"claim_claimed_cents"`
	ClaimPaidCents    int64 `parquet:"claim_paid_cents"`
}
