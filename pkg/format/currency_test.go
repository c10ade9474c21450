package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1234.567, "$1,234.57"},
		{-1234.56, "-$1,234.56"},
		{1000000, "$1,000,000.00"},
		{-0.001, "$0.00"},
	}

	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.expected {
			t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{957.87, "957.87"},
		{-42123.4, "-42,123.40"},
		{100, "100.00"},
	}

	for _, tt := range tests {
		if got := NumericCurrency(tt.amount); got != tt.expected {
			t.Errorf("NumericCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(4.25, 2); got != "4.25%" {
		t.Errorf("Percent(4.25, 2) = %q", got)
	}
	if got := Percent(29.5, 1); got != "29.5%" {
		t.Errorf("Percent(29.5, 1) = %q", got)
	}
	if got := Percent(-4.2123, -1); got != "-4%" {
		t.Errorf("Percent with negative decimals = %q", got)
	}
}

func TestSignedCurrency(t *testing.T) {
	if got := SignedCurrency(12.4); got != "+$12.40" {
		t.Errorf("SignedCurrency(12.4) = %q", got)
	}
	if got := SignedCurrency(-42.13); got != "-$42.13" {
		t.Errorf("SignedCurrency(-42.13) = %q", got)
	}
}
