package x12

import "time"

// ediDateLayout is the fixed-width CCYYMMDD format used by BHT, BPR,
// DTP, and DTM date elements.
const ediDateLayout = "20060102"

// ParseDate parses a CCYYMMDD date element. Malformed dates are
// structural errors: a trusted trading partner never sends them.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(ediDateLayout, s)
	if err != nil {
		return time.Time{}, Structuralf("malformed CCYYMMDD date %q", s)
	}
	return t, nil
}

// FormatDate renders t in CCYYMMDD form.
func FormatDate(t time.Time) string {
	return t.Format(ediDateLayout)
}
