// Package edi837 extracts submitted claims and their service lines from
// EDI 837 professional-claim files. Unlike the 835 side there are no
// reconciliation invariants: this is hierarchical extraction only.
package edi837

import (
	"os"
	"time"

	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/x12"
)

const transactionSetCode = "837"

// Reader parses 837 claim-submission files. Single-use per file.
type Reader struct{}

// NewReader returns a fresh Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile reads and parses an 837 file.
func (r *Reader) ReadFile(path string) ([]model.Edi837Claim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Read(data)
}

// Read parses raw 837 bytes into claims in encounter order. The file
// must carry exactly one interchange, one functional group, and one
// transaction set.
func (r *Reader) Read(data []byte) ([]model.Edi837Claim, error) {
	interchanges, err := x12.ParseEnvelopes(x12.Tokenize(data))
	if err != nil {
		return nil, err
	}
	if len(interchanges) != 1 {
		return nil, x12.Structuralf("expected a single interchange, found %d", len(interchanges))
	}
	ic := interchanges[0]
	if len(ic.Groups) != 1 {
		return nil, x12.Structuralf("expected a single functional group, found %d", len(ic.Groups))
	}
	group := ic.Groups[0]
	if len(group.Sets) != 1 {
		return nil, x12.Structuralf("expected a single transaction set, found %d", len(group.Sets))
	}
	set := group.Sets[0]
	if set.TypeCode() != transactionSetCode {
		return nil, x12.Structuralf("expected transaction set type %s, got %q",
			transactionSetCode, set.TypeCode())
	}

	billedDate, err := findBilledDate(set.Segments)
	if err != nil {
		return nil, err
	}

	var claims []model.Edi837Claim
	for _, loop := range subscriberLoops(set.Segments) {
		loopClaims, err := readSubscriberLoop(loop, billedDate)
		if err != nil {
			return nil, err
		}
		claims = append(claims, loopClaims...)
	}
	return claims, nil
}

func findBilledDate(segs []x12.Segment) (time.Time, error) {
	for _, seg := range segs {
		if seg.Tag() == tagBHT {
			return bhtSegment{seg}.TransactionDate()
		}
	}
	return time.Time{}, x12.Structuralf("transaction set has no BHT segment")
}

// hlLoop is one HL hierarchical loop: its header and the segments that
// follow it up to the next HL.
type hlLoop struct {
	header   hlSegment
	segments []x12.Segment
}

// subscriberLoops splits the transaction set into HL loops and returns
// the ones nested one level below a top-level (billing provider) loop.
func subscriberLoops(segs []x12.Segment) []hlLoop {
	var loops []hlLoop
	var current *hlLoop
	for _, seg := range segs {
		if seg.Tag() == tagHL {
			if current != nil {
				loops = append(loops, *current)
			}
			current = &hlLoop{header: hlSegment{seg}}
			continue
		}
		if current != nil {
			current.segments = append(current.segments, seg)
		}
	}
	if current != nil {
		loops = append(loops, *current)
	}

	providers := make(map[string]bool)
	for _, l := range loops {
		if l.header.ParentID() == "" {
			providers[l.header.ID()] = true
		}
	}

	var subs []hlLoop
	for _, l := range loops {
		if providers[l.header.ParentID()] {
			subs = append(subs, l)
		}
	}
	return subs
}

// loopState tracks the scan position inside a subscriber loop.
type loopState int

const (
	stateNoClaim loopState = iota
	stateInClaim
	stateInCharge
)

func readSubscriberLoop(loop hlLoop, billedDate time.Time) ([]model.Edi837Claim, error) {
	var (
		claims    []model.Edi837Claim
		state     loopState
		claim     model.Edi837Claim
		charge    model.Edi837Charge
		firstName string
		lastName  string
		payerID   string
	)

	flushCharge := func() {
		if state == stateInCharge {
			claim.Charges = append(claim.Charges, charge)
			state = stateInClaim
		}
	}
	flushClaim := func() {
		flushCharge()
		if state == stateInClaim {
			claims = append(claims, claim)
			state = stateNoClaim
		}
	}

	for _, seg := range loop.segments {
		switch seg.Tag() {
		case tagNM1:
			nm1 := nm1Segment{seg}
			switch nm1.EntityCode() {
			case entitySubscriber:
				lastName, firstName = nm1.LastName(), nm1.FirstName()
			case entityPayer:
				payerID = nm1.IDCode()
			}
		case tagCLM:
			flushClaim()
			billed, err := clmSegment{seg}.Billed()
			if err != nil {
				return nil, err
			}
			claim = model.Edi837Claim{
				PayerID:    payerID,
				BilledDate: billedDate,
				FirstName:  firstName,
				LastName:   lastName,
				Billed:     billed,
			}
			state = stateInClaim
		case tagLX:
			if state == stateNoClaim {
				return nil, x12.Structuralf("LX service line before any CLM claim")
			}
			flushCharge()
			charge = model.Edi837Charge{}
			state = stateInCharge
		case tagSV1:
			if state != stateInCharge {
				return nil, x12.Structuralf("SV1 segment outside any LX service line")
			}
			sv1 := sv1Segment{seg}
			billed, err := sv1.Billed()
			if err != nil {
				return nil, err
			}
			units, err := sv1.Units()
			if err != nil {
				return nil, err
			}
			charge.BillingCode = sv1.BillingCode()
			charge.Billed = billed
			charge.Units = units
		case tagDTP:
			dtp := dtpSegment{seg}
			if dtp.Qualifier() != dtpServiceDate {
				continue
			}
			if state != stateInCharge {
				return nil, x12.Structuralf("DTP*472 service date outside any LX service line")
			}
			date, err := dtp.Date()
			if err != nil {
				return nil, err
			}
			charge.ServiceDate = date
		}
	}
	flushClaim()
	return claims, nil
}
