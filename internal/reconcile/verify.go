// Package reconcile holds the standalone financial verification service
// and journal-entry generation. The verifier takes explicit claim,
// charge, and adjustment arguments so it can be injected wherever sums
// must be proven, instead of being mixed into unrelated commands.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/x12"
)

// Verifier proves that component amounts sum to declared totals. All
// comparisons are exact at two decimal places; any failure is fatal for
// the file and carries the expected and actual amounts.
type Verifier struct{}

// VerifyCharge checks billed − paid == contractual adjustment + coinsurance.
func (Verifier) VerifyCharge(ch model.Edi835ChargePayment) error {
	expected := ch.Billed.Sub(ch.Paid)
	actual := ch.ContractualAdjustment.Add(ch.Coinsurance)
	if !money.Equal(expected, actual) {
		return x12.Mismatchf("charge %s: billed minus paid is %s but adjustments sum to %s",
			ch.BillingCode, money.Format(expected), money.Format(actual))
	}
	return nil
}

// VerifyClaim checks every charge, then the three claim-level sums:
// billed against amount claimed, paid against amount paid, and
// coinsurance against patient responsibility.
func (v Verifier) VerifyClaim(cl model.Edi835ClaimPayment) error {
	var billed, paid, coinsurance decimal.Decimal
	billed, paid, coinsurance = money.Zero, money.Zero, money.Zero

	for _, ch := range cl.Charges {
		if err := v.VerifyCharge(ch); err != nil {
			return err
		}
		billed = billed.Add(ch.Billed)
		paid = paid.Add(ch.Paid)
		coinsurance = coinsurance.Add(ch.Coinsurance)
	}

	if !money.Equal(billed, cl.AmountClaimed) {
		return x12.Mismatchf("claim %s: declared amount claimed %s but charges bill %s",
			cl.ClientName(), money.Format(cl.AmountClaimed), money.Format(billed))
	}
	if !money.Equal(paid, cl.AmountPaid) {
		return x12.Mismatchf("claim %s: declared amount paid %s but charges pay %s",
			cl.ClientName(), money.Format(cl.AmountPaid), money.Format(paid))
	}
	if !money.Equal(coinsurance, cl.PatientResponsibility) {
		return x12.Mismatchf("claim %s: declared patient responsibility %s but charge coinsurance sums to %s",
			cl.ClientName(), money.Format(cl.PatientResponsibility), money.Format(coinsurance))
	}
	return nil
}

// VerifyPayment runs the full cascade: every charge, every claim, then
// the payment total against claim payments plus provider adjustments.
func (v Verifier) VerifyPayment(p model.Edi835Payment) error {
	total := money.Zero
	for _, cl := range p.Claims {
		if err := v.VerifyClaim(cl); err != nil {
			return err
		}
		total = total.Add(cl.AmountPaid)
	}
	for _, adj := range p.Adjustments {
		total = total.Add(adj.Amount)
	}

	if !money.Equal(total, p.Amount) {
		return x12.Mismatchf("payment %s: declared amount %s but claims and adjustments sum to %s",
			p.Reference, money.Format(p.Amount), money.Format(total))
	}
	return nil
}
