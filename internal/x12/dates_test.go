package x12

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("20240115")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, s := range []string{"", "2024-01-15", "240115", "20241340"} {
		_, err := ParseDate(s)
		if err == nil {
			t.Errorf("ParseDate(%q): expected error", s)
			continue
		}
		if KindOf(err) != KindStructural {
			t.Errorf("ParseDate(%q): kind = %v, want structural", s, KindOf(err))
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "20240103" {
		t.Errorf("FormatDate = %q, want 20240103", got)
	}
}
