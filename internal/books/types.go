package books

import "github.com/shopspring/decimal"

// Customer is a billable party (a payer or a client) on the accounting
// side. ID is assigned by the remote system and is authoritative.
type Customer struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Item is a billable service on the accounting side.
type Item struct {
	ID          string          `json:"id,omitempty"`
	Code        string          `json:"code"`
	Description string          `json:"description,omitempty"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
}

// InvoiceLine is one service line on an invoice or credit memo.
type InvoiceLine struct {
	ItemCode    string          `json:"item_code"`
	ServiceDate string          `json:"service_date,omitempty"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is a receivable created from a submitted claim.
type Invoice struct {
	ID           string          `json:"id,omitempty"`
	CustomerID   string          `json:"customer_id"`
	Date         string          `json:"date"`
	Total        decimal.Decimal `json:"total"`
	Lines        []InvoiceLine   `json:"lines"`
	ExternalRef  string          `json:"external_ref,omitempty"`
}

// CreditMemo writes down a receivable (contractual adjustment or
// patient-responsibility transfer) against an invoice.
type CreditMemo struct {
	ID        string          `json:"id,omitempty"`
	InvoiceID string          `json:"invoice_id"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
}

// Payment records money received against one or more invoices.
type Payment struct {
	ID         string          `json:"id,omitempty"`
	Reference  string          `json:"reference"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	InvoiceIDs []string        `json:"invoice_ids,omitempty"`
}
