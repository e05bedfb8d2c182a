package services

import (
	"fmt"
	"strings"
)

// Measurement is one width×height×count dimension entry belonging to a
// line item.
type Measurement struct {
	WidthFeet    float64
	WidthInches  float64
	HeightFeet   float64
	HeightInches float64
	Quantity     float64
	Sqft         float64
	Description  string
	SortOrder    int
}

// CalcSqft converts a feet/inches width-height pair and a piece count
// into square footage:
//
//	((widthFeet + widthInches/12) * (heightFeet + heightInches/12)) * quantity
//
// Negative dimensions contribute zero rather than producing a negative
// area; a quantity below 1 falls back to 1 piece.
func CalcSqft(widthFeet, widthInches, heightFeet, heightInches, quantity float64) float64 {
	widthFeet = nonNegative(widthFeet)
	widthInches = nonNegative(widthInches)
	heightFeet = nonNegative(heightFeet)
	heightInches = nonNegative(heightInches)
	if quantity < 1 {
		quantity = 1
	}
	return (widthFeet + widthInches/12) * (heightFeet + heightInches/12) * quantity
}

// SumMeasurementSqft recomputes and sums the area of every measurement.
func SumMeasurementSqft(measurements []Measurement) float64 {
	var sum float64
	for _, m := range measurements {
		sum += CalcSqft(m.WidthFeet, m.WidthInches, m.HeightFeet, m.HeightInches, m.Quantity)
	}
	return sum
}

// FormatMeasurement renders the compact dimension fragment shown under a
// line item, e.g. `2'6" x 3'0" (2 pcs) = 15.00 sft`. A dimension whose
// feet value is 0 prints only its inches (never a stray 0'); an all-zero
// measurement omits the dimension text entirely but still reports the
// piece count and area.
func FormatMeasurement(m Measurement) string {
	qty := m.Quantity
	if qty < 1 {
		qty = 1
	}
	area := CalcSqft(m.WidthFeet, m.WidthInches, m.HeightFeet, m.HeightInches, m.Quantity)

	var dims []string
	if w := formatDimension(m.WidthFeet, m.WidthInches); w != "" {
		dims = append(dims, w)
	}
	if h := formatDimension(m.HeightFeet, m.HeightInches); h != "" {
		dims = append(dims, h)
	}

	suffix := fmt.Sprintf("(%s pcs) = %.2f sft", formatQty(qty), area)
	if len(dims) == 0 {
		return suffix
	}
	return strings.Join(dims, " x ") + " " + suffix
}

// formatDimension renders one feet/inches pair. Feet of 0 are omitted,
// inches of 0 are kept when feet are present (3'0"), and an all-zero
// pair yields an empty string.
func formatDimension(feet, inches float64) string {
	feet = nonNegative(feet)
	inches = nonNegative(inches)
	switch {
	case feet > 0:
		return fmt.Sprintf("%s'%s\"", formatQty(feet), formatQty(inches))
	case inches > 0:
		return fmt.Sprintf("%s\"", formatQty(inches))
	default:
		return ""
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
