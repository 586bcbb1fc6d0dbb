package x12

import (
	"errors"
	"fmt"
)

// Kind classifies EDI processing failures. All kinds are fatal for the
// file being processed; no partial output is returned past one.
type Kind int

const (
	// KindStructural covers envelope control-number/count mismatches,
	// unexpected transaction-set types, missing zip entries, and
	// unsupported adjustment codes.
	KindStructural Kind = iota + 1
	// KindReconciliation covers validation-cascade sum mismatches.
	KindReconciliation
	// KindInvalidArgument covers malformed caller input, such as a bad
	// cursor qualifier. Rejected before any scan occurs.
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindReconciliation:
		return "reconciliation"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// Error is a classified EDI error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("edi %s error: %s", e.Kind, e.Msg)
}

// Structuralf builds a structural Error.
func Structuralf(format string, args ...any) *Error {
	return &Error{Kind: KindStructural, Msg: fmt.Sprintf(format, args...)}
}

// Mismatchf builds a reconciliation Error carrying expected vs actual
// amounts already formatted for the operator.
func Mismatchf(format string, args ...any) *Error {
	return &Error{Kind: KindReconciliation, Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf builds an invalid-argument Error.
func InvalidArgumentf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or 0 when err is not an EDI Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
