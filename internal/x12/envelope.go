package x12

// Envelope segment tags.
const (
	TagISA = "ISA"
	TagIEA = "IEA"
	TagGS  = "GS"
	TagGE  = "GE"
	TagST  = "ST"
	TagSE  = "SE"
)

// Element positions within envelope segments.
const (
	isaIndexControlNumber = 13
	ieaIndexControlNumber = 2

	gsIndexControlNumber = 6
	geIndexSetCount      = 1
	geIndexControlNumber = 2

	stIndexTypeCode      = 1
	stIndexControlNumber = 2
	seIndexControlNumber = 2
)

// TransactionSet is one ST..SE unit. Segments holds everything strictly
// between the header and trailer, in file order.
type TransactionSet struct {
	Header   Segment
	Trailer  Segment
	Segments []Segment
}

// TypeCode returns the transaction-set type, e.g. "835" or "837".
func (ts TransactionSet) TypeCode() string { return ts.Header.Elem(stIndexTypeCode) }

// ControlNumber returns the header control number (ST02).
func (ts TransactionSet) ControlNumber() string { return ts.Header.Elem(stIndexControlNumber) }

// TrailerControlNumber returns the trailer control number (SE02).
func (ts TransactionSet) TrailerControlNumber() string { return ts.Trailer.Elem(seIndexControlNumber) }

// FunctionalGroup is one GS..GE unit containing transaction sets.
type FunctionalGroup struct {
	Header  Segment
	Trailer Segment
	Sets    []TransactionSet
}

// ControlNumber returns the header control number (GS06).
func (g FunctionalGroup) ControlNumber() string { return g.Header.Elem(gsIndexControlNumber) }

// TrailerControlNumber returns the trailer control number (GE02).
func (g FunctionalGroup) TrailerControlNumber() string { return g.Trailer.Elem(geIndexControlNumber) }

// DeclaredSetCount returns the trailer's declared transaction-set count (GE01).
func (g FunctionalGroup) DeclaredSetCount() string { return g.Trailer.Elem(geIndexSetCount) }

// Interchange is one ISA..IEA unit containing functional groups.
type Interchange struct {
	Header  Segment
	Trailer Segment
	Groups  []FunctionalGroup
}

// ControlNumber returns the header control number (ISA13).
func (ic Interchange) ControlNumber() string { return ic.Header.Elem(isaIndexControlNumber) }

// TrailerControlNumber returns the trailer control number (IEA02).
func (ic Interchange) TrailerControlNumber() string { return ic.Trailer.Elem(ieaIndexControlNumber) }

// ParseEnvelopes groups tokenized segments into their nested envelopes.
// Only nesting is enforced here (every header must find its trailer in
// order); control-number and count cross-checks belong to the readers,
// which report them against the transaction data they processed.
func ParseEnvelopes(segs []Segment) ([]Interchange, error) {
	var (
		interchanges []Interchange
		ic           *Interchange
		group        *FunctionalGroup
		set          *TransactionSet
	)

	for _, seg := range segs {
		switch seg.Tag() {
		case TagISA:
			if ic != nil {
				return nil, Structuralf("ISA inside open interchange %s", ic.ControlNumber())
			}
			ic = &Interchange{Header: seg}
		case TagIEA:
			if ic == nil {
				return nil, Structuralf("IEA without matching ISA")
			}
			if group != nil {
				return nil, Structuralf("IEA inside open functional group %s", group.ControlNumber())
			}
			ic.Trailer = seg
			interchanges = append(interchanges, *ic)
			ic = nil
		case TagGS:
			if ic == nil {
				return nil, Structuralf("GS outside interchange")
			}
			if group != nil {
				return nil, Structuralf("GS inside open functional group %s", group.ControlNumber())
			}
			group = &FunctionalGroup{Header: seg}
		case TagGE:
			if group == nil {
				return nil, Structuralf("GE without matching GS")
			}
			if set != nil {
				return nil, Structuralf("GE inside open transaction set %s", set.ControlNumber())
			}
			group.Trailer = seg
			ic.Groups = append(ic.Groups, *group)
			group = nil
		case TagST:
			if group == nil {
				return nil, Structuralf("ST outside functional group")
			}
			if set != nil {
				return nil, Structuralf("ST inside open transaction set %s", set.ControlNumber())
			}
			set = &TransactionSet{Header: seg}
		case TagSE:
			if set == nil {
				return nil, Structuralf("SE without matching ST")
			}
			set.Trailer = seg
			group.Sets = append(group.Sets, *set)
			set = nil
		default:
			if set != nil {
				set.Segments = append(set.Segments, seg)
			}
			// Segments outside any transaction set (e.g. TA1) are skipped.
		}
	}

	if set != nil {
		return nil, Structuralf("transaction set %s missing SE trailer", set.ControlNumber())
	}
	if group != nil {
		return nil, Structuralf("functional group %s missing GE trailer", group.ControlNumber())
	}
	if ic != nil {
		return nil, Structuralf("interchange %s missing IEA trailer", ic.ControlNumber())
	}
	if len(interchanges) == 0 {
		return nil, Structuralf("no ISA interchange found")
	}
	return interchanges, nil
}
