package edi835

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/x12"
)

// Segment tags recognized inside an 835 transaction set.
const (
	tagBPR = "BPR"
	tagTRN = "TRN"
	tagN1  = "N1"
	tagCLP = "CLP"
	tagNM1 = "NM1"
	tagSVC = "SVC"
	tagDTM = "DTM"
	tagCAS = "CAS"
	tagPLB = "PLB"
)

// Entity identifier codes.
const (
	entityPayer   = "PR"
	entityPatient = "QC"
)

// DTM date/time qualifiers.
const (
	dtmServiceDate      = "472"
	dtmServicePeriod    = "150"
	dtmClaimPeriodStart = "232"
	dtmClaimPeriodEnd   = "233"
)

// CAS adjustment codes. Only these two combinations are supported.
const (
	casGroupContractual  = "CO"
	casGroupPatient      = "PR"
	casReasonWriteOff    = "45"
	casReasonCoinsurance = "2"
)

// PLB provider-level adjustment reason codes.
const (
	plbReasonInterest       = "L6"
	plbReasonOriginationFee = "AH"
)

// Typed accessors per segment kind, so the reader never reaches into
// numeric positions directly.

type bprSegment struct{ seg x12.Segment }

func (s bprSegment) PaymentAmount() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(2))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("BPR payment amount: %v", err)
	}
	return amt, nil
}

func (s bprSegment) PaymentDate() (time.Time, error) {
	return x12.ParseDate(s.seg.Elem(16))
}

type trnSegment struct{ seg x12.Segment }

func (s trnSegment) ReferenceNumber() string { return s.seg.Elem(2) }

type n1Segment struct{ seg x12.Segment }

func (s n1Segment) EntityCode() string { return s.seg.Elem(1) }
func (s n1Segment) Name() string       { return s.seg.Elem(2) }

type clpSegment struct{ seg x12.Segment }

func (s clpSegment) AmountClaimed() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(3))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("CLP amount claimed: %v", err)
	}
	return amt, nil
}

func (s clpSegment) AmountPaid() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(4))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("CLP amount paid: %v", err)
	}
	return amt, nil
}

// PatientResponsibility defaults to 0.00 when CLP05 is empty.
func (s clpSegment) PatientResponsibility() (decimal.Decimal, error) {
	amt, err := money.ParseOr(s.seg.Elem(5), "0.00")
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("CLP patient responsibility: %v", err)
	}
	return amt, nil
}

type nm1Segment struct{ seg x12.Segment }

func (s nm1Segment) EntityCode() string { return s.seg.Elem(1) }
func (s nm1Segment) LastName() string   { return s.seg.Elem(3) }
func (s nm1Segment) FirstName() string  { return s.seg.Elem(4) }

type svcSegment struct{ seg x12.Segment }

// BillingCode is the procedure code: second component of the composite
// first element (e.g. "HC:99213").
func (s svcSegment) BillingCode() string { return s.seg.Comp(1, 1) }

func (s svcSegment) Billed() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(2))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("SVC billed amount: %v", err)
	}
	return amt, nil
}

func (s svcSegment) Paid() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(3))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("SVC paid amount: %v", err)
	}
	return amt, nil
}

// Units defaults to 1 when SVC05 is empty.
func (s svcSegment) Units() (int, error) {
	raw := s.seg.Elem(5)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, x12.Structuralf("SVC unit count %q is not an integer", raw)
	}
	return n, nil
}

type dtmSegment struct{ seg x12.Segment }

func (s dtmSegment) Qualifier() string { return s.seg.Elem(1) }

func (s dtmSegment) Date() (time.Time, error) {
	return x12.ParseDate(s.seg.Elem(2))
}

type casSegment struct{ seg x12.Segment }

func (s casSegment) GroupCode() string  { return s.seg.Elem(1) }
func (s casSegment) ReasonCode() string { return s.seg.Elem(2) }

func (s casSegment) Amount() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(3))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("CAS adjustment amount: %v", err)
	}
	return amt, nil
}

type plbSegment struct{ seg x12.Segment }

// ReasonCode is the first component of the composite third element.
func (s plbSegment) ReasonCode() string { return s.seg.Comp(3, 0) }

// Amount returns the raw PLB amount with its source sign intact; the
// reader applies the inversion.
func (s plbSegment) Amount() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(4))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("PLB adjustment amount: %v", err)
	}
	return amt, nil
}
