package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Appointment is one row of the flat appointment import CSV.
type Appointment struct {
	ClientFirstName string    `json:"client_first_name"`
	ClientLastName  string    `json:"client_last_name"`
	PayerID         string    `json:"payer_id"`
	ServiceCode     string    `json:"service_code"`
	Date            time.Time `json:"date"`
	Units           int       `json:"units"`
}

// ChargeLine is one row of the charge import CSV: a billed service
// awaiting claim submission.
type ChargeLine struct {
	ClientFirstName string          `json:"client_first_name"`
	ClientLastName  string          `json:"client_last_name"`
	BillingCode     string          `json:"billing_code"`
	ServiceDate     time.Time       `json:"service_date"`
	Billed          decimal.Decimal `json:"billed"`
	Units           int             `json:"units"`
}

// Payer is one row of the payer catalog CSV.
type Payer struct {
	PayerID string `json:"payer_id"`
	Name    string `json:"name"`
}

// ServiceItem is one row of the service catalog CSV: a billing code and
// its contracted per-unit rate.
type ServiceItem struct {
	BillingCode string          `json:"billing_code"`
	Description string          `json:"description"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
}
