package model

import "time"

// PaymentRecord is the persisted form of a processed remittance
// payment, keyed by the payment reference. BooksPaymentID is assigned
// by the remote accounting system and is authoritative.
type PaymentRecord struct {
	Payment        Edi835Payment `json:"payment"`
	BooksPaymentID string        `json:"books_payment_id,omitempty"`
	BatchID        string        `json:"batch_id"`
	ProcessedAt    time.Time     `json:"processed_at"`
}

// ClaimRecord is the persisted form of a submitted claim, keyed by a
// deterministic claim id. InvoiceID is assigned by the remote
// accounting system.
type ClaimRecord struct {
	Claim     Edi837Claim `json:"claim"`
	ClaimID   string      `json:"claim_id"`
	InvoiceID string      `json:"invoice_id,omitempty"`
	BatchID   string      `json:"batch_id"`
}
