package services

import "testing"

func TestFormatTaka(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "৳0.00"},
		{"under a thousand", 500, "৳500.00"},
		{"exactly a thousand", 1000, "৳1,000.00"},
		{"one lakh", 100000, "৳1,00,000.00"},
		{"lakh grouping", 1234567.89, "৳12,34,567.89"},
		{"crore grouping", 12345678, "৳1,23,45,678.00"},
		{"hundred crore", 1234567890.5, "৳1,23,45,67,890.50"},
		{"negative", -1234.5, "-৳1,234.50"},
		{"rounds to two decimals", 99.999, "৳100.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTaka(tt.amount); got != tt.want {
				t.Errorf("FormatTaka(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "Zero Taka Only"},
		{"single digit", 5, "Five Taka Only"},
		{"teens", 17, "Seventeen Taka Only"},
		{"tens with ones", 42, "Forty Two Taka Only"},
		{"hundreds", 307, "Three Hundred Seven Taka Only"},
		{"thousands", 45000, "Forty Five Thousand Taka Only"},
		{"one lakh", 100000, "One Lakh Taka Only"},
		{
			"mixed lakh",
			1234567,
			"Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Taka Only",
		},
		{"one crore", 10000000, "One Crore Taka Only"},
		{
			"crore recursion above a billion",
			2500000000,
			"Two Hundred Fifty Crore Taka Only",
		},
		{"paise", 1000.50, "One Thousand Taka and Fifty Paise Only"},
		{"paise only", 0.05, "Zero Taka and Five Paise Only"},
		{"paise rounding", 10.999, "Eleven Taka Only"},
		{"negative", -250, "Negative Two Hundred Fifty Taka Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountInWords(tt.amount); got != tt.want {
				t.Errorf("AmountInWords(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		qty  float64
		want string
	}{
		{0, "0"},
		{3, "3"},
		{2.5, "2.50"},
		{10.25, "10.25"},
	}
	for _, tt := range tests {
		if got := formatQty(tt.qty); got != tt.want {
			t.Errorf("formatQty(%v) = %q, want %q", tt.qty, got, tt.want)
		}
	}
}
