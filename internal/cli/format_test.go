package cli

import (
	"math"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.345, "$12.35"},
		{999.994, "$999.99"},
		{1000, "$1,000"},
		{1234567.89, "$1,234,568"},
		{-50.0000000000002, "-$50.00"},
		{-0.001, "$0.00"},
		{math.NaN(), "-"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedMoney(t *testing.T) {
	if got := FormatSignedMoney(50); got != "+$50.00" {
		t.Fatalf("got %q", got)
	}
	if got := FormatSignedMoney(-1500); got != "-$1,500" {
		t.Fatalf("got %q", got)
	}
	if got := FormatSignedMoney(0); got != "$0.00" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatOptional(t *testing.T) {
	pct := -4.5454
	if got := FormatOptionalPercent(&pct); got != "-4.5%" {
		t.Fatalf("FormatOptionalPercent = %q", got)
	}
	if got := FormatOptionalPercent(nil); got != Missing {
		t.Fatalf("FormatOptionalPercent(nil) = %q", got)
	}
	if got := FormatOptionalMoney(nil); got != Missing {
		t.Fatalf("FormatOptionalMoney(nil) = %q", got)
	}
}

func TestFormatAttendance(t *testing.T) {
	if got := FormatAttendance(1331.0000000000002); got != "1,331" {
		t.Fatalf("FormatAttendance = %q", got)
	}
	if got := FormatAttendance(2499.5); got != "2,500" {
		t.Fatalf("FormatAttendance = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{0: "0", 999: "999", 1000: "1,000", -1234567: "-1,234,567"}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(3725); got != "1h 2m" {
		t.Fatalf("FormatDuration = %q", got)
	}
}
