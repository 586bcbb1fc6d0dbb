package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"85.00", "85.00"},
		{"85", "85.00"},
		{"-150.00", "-150.00"},
		{"0.1", "0.10"},
		{" 12.34 ", "12.34"},
	}
	for _, tc := range cases {
		d, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if got := Format(d); got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "  ", "12,34", "abc"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestParseOr(t *testing.T) {
	d, err := ParseOr("", "0.00")
	if err != nil {
		t.Fatalf("ParseOr: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("ParseOr(\"\", \"0.00\") = %s, want 0.00", Format(d))
	}
	d, err = ParseOr("15.00", "0.00")
	if err != nil {
		t.Fatalf("ParseOr: %v", err)
	}
	if Format(d) != "15.00" {
		t.Errorf("ParseOr = %s, want 15.00", Format(d))
	}
}

// Binary floating point famously cannot represent 0.1 + 0.2 exactly.
// The decimal representation must.
func TestSum_Exact(t *testing.T) {
	got := Sum(MustParse("0.10"), MustParse("0.20"))
	if !Equal(got, MustParse("0.30")) {
		t.Errorf("0.10 + 0.20 = %s, want 0.30", Format(got))
	}

	got = Sum(MustParse("100.00"), MustParse("-85.00"), MustParse("-10.00"), MustParse("-5.00"))
	if !got.IsZero() {
		t.Errorf("cascade residual = %s, want 0.00", Format(got))
	}
}

func TestEqual_NormalizesScale(t *testing.T) {
	if !Equal(MustParse("85"), MustParse("85.00")) {
		t.Error("85 and 85.00 must compare equal")
	}
	if Equal(MustParse("85.00"), MustParse("85.01")) {
		t.Error("85.00 and 85.01 must not compare equal")
	}
}

func TestAvg(t *testing.T) {
	got := Avg(MustParse("100.00"), 3)
	if got.StringFixed(4) != "33.3333" {
		t.Errorf("Avg(100.00, 3) = %s, want 33.3333", got.StringFixed(4))
	}
	if !Avg(MustParse("100.00"), 0).IsZero() {
		t.Error("Avg with zero count must be zero")
	}
}

func TestCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"85.00", 8500},
		{"-150.00", -15000},
		{"0.005", 1},
		{"0", 0},
	}
	for _, tc := range cases {
		if got := Cents(MustParse(tc.in)); got != tc.want {
			t.Errorf("Cents(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(decimal.NewFromInt(85), "USD"); got != "USD 85.00" {
		t.Errorf("FormatCurrency = %q, want \"USD 85.00\"", got)
	}
}
