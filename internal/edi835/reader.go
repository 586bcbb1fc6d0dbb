// Package edi835 extracts remittance payments from EDI 835 files and
// cross-validates every declared total against the sum of its
// components before anything is returned.
package edi835

import (
	"strconv"
	"time"

	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/reconcile"
	"github.com/kwhaley/billrecon/internal/x12"
)

const transactionSetCode = "835"

// Reader parses 835 remittance files. Each instance owns its own
// tokenized buffer and is single-use: create a fresh Reader per file.
type Reader struct {
	verifier reconcile.Verifier
}

// NewReader returns a Reader validated by the standard verifier.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile reads and parses an 835 file. A .zip path is transparently
// unwrapped to its single *.835 entry.
func (r *Reader) ReadFile(path string) ([]model.Edi835Payment, error) {
	data, err := x12.ReadFile(path, ".835")
	if err != nil {
		return nil, err
	}
	return r.Read(data)
}

// Read parses raw 835 bytes into validated payments. Envelope control
// numbers and counts are checked at every level; any structural or
// reconciliation failure aborts the whole file with no partial result.
func (r *Reader) Read(data []byte) ([]model.Edi835Payment, error) {
	interchanges, err := x12.ParseEnvelopes(x12.Tokenize(data))
	if err != nil {
		return nil, err
	}

	var payments []model.Edi835Payment
	for _, ic := range interchanges {
		for _, group := range ic.Groups {
			for _, set := range group.Sets {
				payment, err := r.readTransactionSet(set)
				if err != nil {
					return nil, err
				}
				if err := r.verifier.VerifyPayment(payment); err != nil {
					return nil, err
				}
				payments = append(payments, payment)
			}
			if err := checkGroupTrailer(group); err != nil {
				return nil, err
			}
		}
		if ic.TrailerControlNumber() != ic.ControlNumber() {
			return nil, x12.Structuralf("interchange control number mismatch: header %s, trailer %s",
				ic.ControlNumber(), ic.TrailerControlNumber())
		}
	}
	return payments, nil
}

func checkGroupTrailer(group x12.FunctionalGroup) error {
	declared, err := strconv.Atoi(group.DeclaredSetCount())
	if err != nil {
		return x12.Structuralf("functional group %s: GE transaction count %q is not an integer",
			group.ControlNumber(), group.DeclaredSetCount())
	}
	if declared != len(group.Sets) {
		return x12.Structuralf("functional group %s: GE declares %d transaction sets, processed %d",
			group.ControlNumber(), declared, len(group.Sets))
	}
	if group.TrailerControlNumber() != group.ControlNumber() {
		return x12.Structuralf("functional group control number mismatch: header %s, trailer %s",
			group.ControlNumber(), group.TrailerControlNumber())
	}
	return nil
}

// scanState tracks where the linear scan is inside a transaction set.
type scanState int

const (
	stateNoClaim scanState = iota
	stateInClaim
	stateInCharge
)

// scanContext carries the in-progress payment plus the two pending
// claim-level dates, reset at each new claim.
type scanContext struct {
	state   scanState
	payment model.Edi835Payment
	claim   model.Edi835ClaimPayment
	charge  model.Edi835ChargePayment

	claimStart *time.Time
	claimEnd   *time.Time
}

func (sc *scanContext) flushCharge() {
	if sc.state == stateInCharge {
		sc.claim.Charges = append(sc.claim.Charges, sc.charge)
		sc.state = stateInClaim
	}
}

func (sc *scanContext) flushClaim() {
	sc.flushCharge()
	if sc.state == stateInClaim {
		sc.payment.Claims = append(sc.payment.Claims, sc.claim)
		sc.state = stateNoClaim
	}
}

func (r *Reader) readTransactionSet(set x12.TransactionSet) (model.Edi835Payment, error) {
	var none model.Edi835Payment

	if set.TypeCode() != transactionSetCode {
		return none, x12.Structuralf("expected transaction set type %s, got %q",
			transactionSetCode, set.TypeCode())
	}
	if set.TrailerControlNumber() != set.ControlNumber() {
		return none, x12.Structuralf("transaction set control number mismatch: header %s, trailer %s",
			set.ControlNumber(), set.TrailerControlNumber())
	}

	sc := &scanContext{}
	for _, seg := range set.Segments {
		var err error
		switch seg.Tag() {
		case tagBPR:
			err = sc.readBPR(bprSegment{seg})
		case tagTRN:
			sc.payment.Reference = trnSegment{seg}.ReferenceNumber()
		case tagN1:
			if n1 := (n1Segment{seg}); n1.EntityCode() == entityPayer {
				sc.payment.PayerName = n1.Name()
			}
		case tagCLP:
			err = sc.readCLP(clpSegment{seg})
		case tagNM1:
			sc.readNM1(nm1Segment{seg})
		case tagSVC:
			err = sc.readSVC(svcSegment{seg})
		case tagDTM:
			err = sc.readDTM(dtmSegment{seg})
		case tagCAS:
			err = sc.readCAS(casSegment{seg})
		case tagPLB:
			err = sc.readPLB(plbSegment{seg})
		}
		if err != nil {
			return none, err
		}
	}
	sc.flushClaim()
	return sc.payment, nil
}

func (sc *scanContext) readBPR(s bprSegment) error {
	amount, err := s.PaymentAmount()
	if err != nil {
		return err
	}
	date, err := s.PaymentDate()
	if err != nil {
		return err
	}
	sc.payment.Amount = amount
	sc.payment.Date = date
	return nil
}

func (sc *scanContext) readCLP(s clpSegment) error {
	sc.flushClaim()

	claimed, err := s.AmountClaimed()
	if err != nil {
		return err
	}
	paid, err := s.AmountPaid()
	if err != nil {
		return err
	}
	responsibility, err := s.PatientResponsibility()
	if err != nil {
		return err
	}

	sc.claim = model.Edi835ClaimPayment{
		AmountClaimed:         claimed,
		AmountPaid:            paid,
		PatientResponsibility: responsibility,
	}
	sc.claimStart, sc.claimEnd = nil, nil
	sc.state = stateInClaim
	return nil
}

func (sc *scanContext) readNM1(s nm1Segment) {
	if s.EntityCode() != entityPatient || sc.state == stateNoClaim {
		return
	}
	sc.claim.LastName = s.LastName()
	sc.claim.FirstName = s.FirstName()
}

func (sc *scanContext) readSVC(s svcSegment) error {
	if sc.state == stateNoClaim {
		return x12.Structuralf("SVC segment before any CLP claim")
	}
	sc.flushCharge()

	billed, err := s.Billed()
	if err != nil {
		return err
	}
	paid, err := s.Paid()
	if err != nil {
		return err
	}
	units, err := s.Units()
	if err != nil {
		return err
	}

	sc.charge = model.Edi835ChargePayment{
		BillingCode:           s.BillingCode(),
		Billed:                billed,
		Paid:                  paid,
		Units:                 units,
		ContractualAdjustment: money.Zero,
		Coinsurance:           money.Zero,
	}
	// Single-day claims often omit the charge-level date segment; when
	// the claim period collapses to one day, the charge inherits it.
	if sc.claimStart != nil && sc.claimEnd != nil && sc.claimStart.Equal(*sc.claimEnd) {
		sc.charge.ServiceDate = *sc.claimStart
	}
	sc.state = stateInCharge
	return nil
}

func (sc *scanContext) readDTM(s dtmSegment) error {
	date, err := s.Date()
	if err != nil {
		return err
	}
	switch s.Qualifier() {
	case dtmServiceDate, dtmServicePeriod:
		if sc.state != stateInCharge {
			return x12.Structuralf("DTM*%s service date before any SVC charge", s.Qualifier())
		}
		sc.charge.ServiceDate = date
	case dtmClaimPeriodStart:
		if sc.state == stateNoClaim {
			return x12.Structuralf("DTM*232 claim period start before any CLP claim")
		}
		sc.claimStart = &date
	case dtmClaimPeriodEnd:
		if sc.state == stateNoClaim {
			return x12.Structuralf("DTM*233 claim period end before any CLP claim")
		}
		sc.claimEnd = &date
	}
	return nil
}

func (sc *scanContext) readCAS(s casSegment) error {
	if sc.state != stateInCharge {
		return x12.Structuralf("CAS adjustment before any SVC charge")
	}
	amount, err := s.Amount()
	if err != nil {
		return err
	}
	switch {
	case s.GroupCode() == casGroupContractual && s.ReasonCode() == casReasonWriteOff:
		sc.charge.ContractualAdjustment = amount
	case s.GroupCode() == casGroupPatient && s.ReasonCode() == casReasonCoinsurance:
		sc.charge.Coinsurance = amount
	default:
		return x12.Structuralf("unsupported CAS adjustment group %q reason %q",
			s.GroupCode(), s.ReasonCode())
	}
	return nil
}

func (sc *scanContext) readPLB(s plbSegment) error {
	amount, err := s.Amount()
	if err != nil {
		return err
	}

	var adjType model.AdjustmentType
	switch s.ReasonCode() {
	case plbReasonInterest:
		adjType = model.AdjustmentInterest
	case plbReasonOriginationFee:
		adjType = model.AdjustmentOriginationFee
	default:
		return x12.Structuralf("unsupported PLB provider adjustment reason %q", s.ReasonCode())
	}

	// The source encodes provider payments as negative and withholdings
	// as positive; the stored amount is the true effect on the payment.
	sc.payment.Adjustments = append(sc.payment.Adjustments, model.ProviderAdjustment{
		Type:   adjType,
		Amount: amount.Neg(),
	})
	return nil
}
