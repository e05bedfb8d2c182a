// Package services provides the pricing, recalculation and document
// generation core for billbook.
package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatTaka formats a float64 amount into Bangladeshi Taka notation.
// It uses the South Asian numbering system where, after the rightmost 3
// digits, digits are grouped in pairs (e.g., ৳12,34,567.89).
// The result always includes exactly 2 decimal places.
func FormatTaka(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	formatted := applyLakhGrouping(intPart)

	result := "৳" + formatted + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyLakhGrouping inserts commas into an integer string using the
// South Asian numbering system: the rightmost 3 digits form the first
// group, then every 2 digits form subsequent groups.
func applyLakhGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

// AmountInWords converts a numeric amount to Bengali-English currency words
// using Lakh/Crore grouping. The fractional part is expressed in Paise.
// Examples:
//
//	0       → "Zero Taka Only"
//	100000  → "One Lakh Taka Only"
//	1234567 → "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Taka Only"
//	1000.50 → "One Thousand Taka and Fifty Paise Only"
func AmountInWords(amount float64) string {
	if amount < 0 {
		return "Negative " + AmountInWords(-amount)
	}

	cents := int64(math.Round(amount * 100))
	taka := cents / 100
	paise := cents % 100

	if taka == 0 && paise == 0 {
		return "Zero Taka Only"
	}

	var b strings.Builder
	if taka == 0 {
		b.WriteString("Zero Taka")
	} else {
		b.WriteString(toLakhCroreWords(taka))
		b.WriteString(" Taka")
	}
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(wordsUnder100(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// toLakhCroreWords converts a positive integer using Lakh (10^5) and
// Crore (10^7) grouping. Crore recurses so amounts of 100 Crore and
// above (10^9+) keep a correct word breakdown.
func toLakhCroreWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string

	if n >= 10000000 {
		parts = append(parts, toLakhCroreWords(n/10000000)+" Crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, wordsUnder100(n/100000)+" Lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, wordsUnder100(n/1000)+" Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, wordsUnder100(n))
	}

	return strings.Join(parts, " ")
}

func wordsUnder100(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	result := tensWords[n/10]
	if n%10 != 0 {
		result += " " + onesWords[n%10]
	}
	return result
}

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// formatQty returns a string representation of a quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
