package cli

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{0, "EUR", "€0.00"},
		{1234.5, "EUR", "€1,234.50"},
		{-20, "EUR", "-€20.00"},
		{99.999, "USD", "$100.00"},
		{42, "CHF", "CHF 42.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestFormatTrend(t *testing.T) {
	if got := FormatTrend(20); got != "↑ 20.0%" {
		t.Errorf("up trend = %q", got)
	}
	if got := FormatTrend(-5); got != "↓ 5.0%" {
		t.Errorf("down trend = %q", got)
	}
	if got := FormatTrend(0); got != "→ 0.0%" {
		t.Errorf("flat trend = %q", got)
	}
}

func TestFormatDaysLeft(t *testing.T) {
	if got := FormatDaysLeft(nil); got != "safe" {
		t.Errorf("nil = %q", got)
	}
	zero, three := 0, 3
	if got := FormatDaysLeft(&zero); got != "now" {
		t.Errorf("zero = %q", got)
	}
	if got := FormatDaysLeft(&three); got != "3 days" {
		t.Errorf("three = %q", got)
	}
}

func TestFormatDay(t *testing.T) {
	if got := FormatDay(time.Time{}); got != "never" {
		t.Errorf("zero time = %q", got)
	}
	if got := FormatDay(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)); got != "Jun 9, 2025" {
		t.Errorf("day = %q", got)
	}
}
