// Package export flattens reconciled payments into analytics rows and
// writes them as Parquet.
package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/x12"
)

// Flatten produces one report row per remitted charge.
func Flatten(payments []model.Edi835Payment) []model.PaymentReportRow {
	var rows []model.PaymentReportRow
	for _, p := range payments {
		for _, cl := range p.Claims {
			for _, ch := range cl.Charges {
				row := model.PaymentReportRow{
					PaymentReference:  p.Reference,
					PayerName:         p.PayerName,
					PaymentDate:       x12.FormatDate(p.Date),
					ClientName:        cl.ClientName(),
					BillingCode:       ch.BillingCode,
					Units:             int32(ch.Units),
					BilledCents:       money.Cents(ch.Billed),
					PaidCents:         money.Cents(ch.Paid),
					ContractualCents:  money.Cents(ch.ContractualAdjustment),
					CoinsuranceCents:  money.Cents(ch.Coinsurance),
					ClaimClaimedCents: money.Cents(cl.AmountClaimed),
					ClaimPaidCents:    money.Cents(cl.AmountPaid),
				}
				if !ch.ServiceDate.IsZero() {
					row.ServiceDate = x12.FormatDate(ch.ServiceDate)
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// WriteFile writes report rows to a Parquet file at path.
func WriteFile(path string, rows []model.PaymentReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[model.PaymentReportRow](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}
