package services

import (
	"math"
	"testing"
)

func TestRecalcJobTotal(t *testing.T) {
	tests := []struct {
		name        string
		items       []ItemData
		storedTotal float64
		want        float64
	}{
		{
			"items win over a stale stored total",
			[]ItemData{
				{Quantity: 2, UnitPrice: 100},
				{Quantity: 3, UnitPrice: 100},
			},
			300,
			500,
		},
		{
			"no items falls back to stored",
			nil,
			300,
			300,
		},
		{
			"zero-sum items fall back to stored",
			[]ItemData{
				{Quantity: 5, UnitPrice: 0},
				{Quantity: 0, UnitPrice: 100},
			},
			1200,
			1200,
		},
		{
			"item discounts flow through",
			[]ItemData{{Quantity: 10, UnitPrice: 100, DiscountPercent: 10}},
			0,
			900,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecalcJobTotal(tt.items, tt.storedTotal); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RecalcJobTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActiveExpenseTotal(t *testing.T) {
	expenses := []ExpenseData{
		{Amount: 100, IsActive: true},
		{Amount: 9999, IsActive: false},
		{Amount: 50, IsActive: true},
	}
	if got := ActiveExpenseTotal(expenses); got != 150 {
		t.Errorf("ActiveExpenseTotal() = %v, want 150", got)
	}
	if got := ActiveExpenseTotal(nil); got != 0 {
		t.Errorf("ActiveExpenseTotal(nil) = %v, want 0", got)
	}
}

func TestExpectedProfit(t *testing.T) {
	job := &JobData{
		TotalAmount: 300, // stale on purpose
		Items:       []ItemData{{Quantity: 10, UnitPrice: 100}},
		Expenses: []ExpenseData{
			{Amount: 150, IsActive: true},
			{Amount: 9999, IsActive: false},
		},
	}
	if got := ExpectedProfit(job); got != 850 {
		t.Errorf("ExpectedProfit() = %v, want 850", got)
	}
}

func TestCalcJobTotals(t *testing.T) {
	items := []ItemData{
		{Quantity: 2, UnitPrice: 500, VATRate: 15},
		{Quantity: 1, UnitPrice: 1000},
	}

	totals := CalcJobTotals(items, 10)

	if totals.Subtotal != 2000 {
		t.Errorf("Subtotal = %v, want 2000", totals.Subtotal)
	}
	if totals.TotalVAT != 0 {
		t.Errorf("TotalVAT = %v, want 0", totals.TotalVAT)
	}
	if totals.DiscountAmount != 200 {
		t.Errorf("DiscountAmount = %v, want 200", totals.DiscountAmount)
	}
	if totals.TotalAmount != 1800 {
		t.Errorf("TotalAmount = %v, want 1800", totals.TotalAmount)
	}
	if want := "One Thousand Eight Hundred Taka Only"; totals.AmountInWords != want {
		t.Errorf("AmountInWords = %q, want %q", totals.AmountInWords, want)
	}
}

func TestCalcJobTotalsEmpty(t *testing.T) {
	totals := CalcJobTotals(nil, 5)
	if totals.TotalAmount != 0 {
		t.Errorf("TotalAmount = %v, want 0", totals.TotalAmount)
	}
	if totals.AmountInWords != "Zero Taka Only" {
		t.Errorf("AmountInWords = %q, want %q", totals.AmountInWords, "Zero Taka Only")
	}
}

func TestCalcTopsheetTotals(t *testing.T) {
	jobs := []JobData{
		{
			Items: []ItemData{{Quantity: 10, UnitPrice: 100}},
			Expenses: []ExpenseData{
				{Amount: 200, IsActive: true},
				{Amount: 5000, IsActive: false},
			},
		},
		{
			// No items: the stored total carries this job.
			TotalAmount: 500,
		},
	}

	totals := CalcTopsheetTotals(jobs)
	if totals.GrandTotal != 1500 {
		t.Errorf("GrandTotal = %v, want 1500", totals.GrandTotal)
	}
	if totals.TotalExpenses != 200 {
		t.Errorf("TotalExpenses = %v, want 200", totals.TotalExpenses)
	}
	if totals.TotalProfit != 1300 {
		t.Errorf("TotalProfit = %v, want 1300", totals.TotalProfit)
	}
}
