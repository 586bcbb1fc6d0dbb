package edi837

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/x12"
)

// Segment tags recognized inside an 837 transaction set.
const (
	tagBHT = "BHT"
	tagHL  = "HL"
	tagNM1 = "NM1"
	tagCLM = "CLM"
	tagLX  = "LX"
	tagSV1 = "SV1"
	tagDTP = "DTP"
)

// Entity identifier codes.
const (
	entitySubscriber = "IL"
	entityPayer      = "PR"
)

// DTP qualifier for a service-line date.
const dtpServiceDate = "472"

type bhtSegment struct{ seg x12.Segment }

// TransactionDate is the claim-submission ("billed") date.
func (s bhtSegment) TransactionDate() (time.Time, error) {
	return x12.ParseDate(s.seg.Elem(4))
}

type hlSegment struct{ seg x12.Segment }

func (s hlSegment) ID() string       { return s.seg.Elem(1) }
func (s hlSegment) ParentID() string { return s.seg.Elem(2) }

type nm1Segment struct{ seg x12.Segment }

func (s nm1Segment) EntityCode() string { return s.seg.Elem(1) }
func (s nm1Segment) LastName() string   { return s.seg.Elem(3) }
func (s nm1Segment) FirstName() string  { return s.seg.Elem(4) }
func (s nm1Segment) IDCode() string     { return s.seg.Elem(9) }

type clmSegment struct{ seg x12.Segment }

func (s clmSegment) Billed() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(2))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("CLM billed amount: %v", err)
	}
	return amt, nil
}

type sv1Segment struct{ seg x12.Segment }

// BillingCode is the second component of the composite first element.
func (s sv1Segment) BillingCode() string { return s.seg.Comp(1, 1) }

func (s sv1Segment) Billed() (decimal.Decimal, error) {
	amt, err := money.Parse(s.seg.Elem(2))
	if err != nil {
		return decimal.Decimal{}, x12.Structuralf("SV1 billed amount: %v", err)
	}
	return amt, nil
}

func (s sv1Segment) Units() (int, error) {
	raw := s.seg.Elem(4)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, x12.Structuralf("SV1 unit count %q is not an integer", raw)
	}
	return n, nil
}

type dtpSegment struct{ seg x12.Segment }

func (s dtpSegment) Qualifier() string { return s.seg.Elem(1) }

func (s dtpSegment) Date() (time.Time, error) {
	return x12.ParseDate(s.seg.Elem(3))
}
