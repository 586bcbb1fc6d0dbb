package reconcile

import (
	"strings"
	"testing"

	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/x12"
)

func charge(billed, paid, contractual, coinsurance string) model.Edi835ChargePayment {
	return model.Edi835ChargePayment{
		BillingCode:           "99213",
		Billed:                money.MustParse(billed),
		Paid:                  money.MustParse(paid),
		Units:                 1,
		ContractualAdjustment: money.MustParse(contractual),
		Coinsurance:           money.MustParse(coinsurance),
	}
}

func balancedClaim() model.Edi835ClaimPayment {
	return model.Edi835ClaimPayment{
		AmountClaimed:         money.MustParse("100.00"),
		AmountPaid:            money.MustParse("85.00"),
		PatientResponsibility: money.MustParse("5.00"),
		FirstName:             "JANE",
		LastName:              "DOE",
		Charges:               []model.Edi835ChargePayment{charge("100.00", "85.00", "10.00", "5.00")},
	}
}

func wantMismatch(t *testing.T, err error, fragments ...string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if got := x12.KindOf(err); got != x12.KindReconciliation {
		t.Fatalf("error kind = %v, want reconciliation (err: %v)", got, err)
	}
	for _, f := range fragments {
		if !strings.Contains(err.Error(), f) {
			t.Errorf("error %q missing %q", err, f)
		}
	}
}

func TestVerifyCharge(t *testing.T) {
	var v Verifier
	if err := v.VerifyCharge(charge("100.00", "85.00", "10.00", "5.00")); err != nil {
		t.Errorf("balanced charge: %v", err)
	}
	wantMismatch(t, v.VerifyCharge(charge("100.00", "85.00", "12.00", "5.00")), "15.00", "17.00")
}

func TestVerifyCharge_ScaleInsensitive(t *testing.T) {
	var v Verifier
	ch := model.Edi835ChargePayment{
		Billed:                money.MustParse("100"),
		Paid:                  money.MustParse("85.0"),
		ContractualAdjustment: money.MustParse("10.00"),
		Coinsurance:           money.MustParse("5"),
	}
	if err := v.VerifyCharge(ch); err != nil {
		t.Errorf("scale variants must still balance: %v", err)
	}
}

func TestVerifyClaim(t *testing.T) {
	var v Verifier
	if err := v.VerifyClaim(balancedClaim()); err != nil {
		t.Errorf("balanced claim: %v", err)
	}

	cl := balancedClaim()
	cl.AmountClaimed = money.MustParse("110.00")
	wantMismatch(t, v.VerifyClaim(cl), "DOE, JANE", "110.00", "100.00")

	cl = balancedClaim()
	cl.AmountPaid = money.MustParse("80.00")
	wantMismatch(t, v.VerifyClaim(cl), "80.00", "85.00")

	cl = balancedClaim()
	cl.PatientResponsibility = money.MustParse("15.00")
	wantMismatch(t, v.VerifyClaim(cl), "15.00", "5.00")
}

func TestVerifyClaim_ReportsInnerChargeFirst(t *testing.T) {
	var v Verifier
	cl := balancedClaim()
	cl.Charges = append(cl.Charges, charge("50.00", "50.00", "1.00", "0.00"))
	wantMismatch(t, v.VerifyClaim(cl), "charge")
}

func TestVerifyPayment(t *testing.T) {
	var v Verifier
	p := model.Edi835Payment{
		Amount:    money.MustParse("210.00"),
		Reference: "77002",
		Claims:    []model.Edi835ClaimPayment{balancedClaim()},
		Adjustments: []model.ProviderAdjustment{
			{Type: model.AdjustmentInterest, Amount: money.MustParse("150.00")},
			{Type: model.AdjustmentOriginationFee, Amount: money.MustParse("-25.00")},
		},
	}
	if err := v.VerifyPayment(p); err != nil {
		t.Errorf("balanced payment: %v", err)
	}

	p.Amount = money.MustParse("200.00")
	wantMismatch(t, v.VerifyPayment(p), "77002", "200.00", "210.00")
}

func TestVerifyPayment_EmptyClaims(t *testing.T) {
	var v Verifier
	p := model.Edi835Payment{Amount: money.Zero, Reference: "EMPTY"}
	if err := v.VerifyPayment(p); err != nil {
		t.Errorf("zero payment with no claims: %v", err)
	}
}
