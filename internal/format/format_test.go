package format

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{120, "$120.00"},
		{307.7, "$307.70"},
		{3620, "$3,620.00"},
		{3927.7, "$3,927.70"},
		{1234567.891, "$1,234,567.89"},
		{-42.5, "-$42.50"},
	}

	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.want {
			t.Errorf("Currency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{0.085, "8.5%"},
		{0.08, "8.0%"},
		{0, "0.0%"},
		{0.2, "20.0%"},
	}

	for _, tt := range tests {
		if got := Percent(tt.fraction); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.fraction, got, tt.want)
		}
	}
}

func TestLongDate(t *testing.T) {
	if got := LongDate("2025-03-28"); got != "March 28, 2025" {
		t.Errorf("LongDate(2025-03-28) = %q", got)
	}

	// Unparseable values pass through unchanged.
	if got := LongDate("soon"); got != "soon" {
		t.Errorf("LongDate(soon) = %q, want passthrough", got)
	}
}

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"28 Mar 2025", time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), true},
		{"28 March 2025", time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), true},
		{"28/3/2025", time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), true},
		{"March 28, 2025", time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), true},
		{"2025-03-28", time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseFlexibleDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseFlexibleDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseFlexibleDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
