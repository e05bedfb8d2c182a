package services

import (
	"testing"
	"time"
)

func TestMonthlyRollup(t *testing.T) {
	jobs := []JobData{
		{
			ID:          "j1",
			RefNumber:   "JOB-202603-0001",
			Date:        time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
			TotalAmount: 300, // stale; items say 1000
			Items:       []ItemData{{Quantity: 10, UnitPrice: 100}},
			Expenses:    []ExpenseData{{Amount: 150, IsActive: true}},
		},
		{
			ID:        "j2",
			RefNumber: "JOB-202603-0002",
			Date:      time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
			Items:     []ItemData{{Quantity: 1, UnitPrice: 500}},
		},
		{
			ID:    "j3",
			Date:  time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			Items: []ItemData{{Quantity: 1, UnitPrice: 99999}},
		},
	}
	topsheets := []TopsheetData{
		{Date: time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}

	data := MonthlyRollup(2026, jobs, topsheets)

	if data.Year != 2026 {
		t.Fatalf("Year = %d, want 2026", data.Year)
	}
	if len(data.MonthlyProfit) != 12 {
		t.Fatalf("len(MonthlyProfit) = %d, want 12", len(data.MonthlyProfit))
	}
	if len(data.JobsByMonth) != 12 {
		t.Fatalf("len(JobsByMonth) = %d, want 12", len(data.JobsByMonth))
	}

	march := data.MonthlyProfit[2]
	if march.Revenue != 1500 {
		t.Errorf("March revenue = %v, want 1500 (recomputed, not stored)", march.Revenue)
	}
	if march.Expenses != 150 {
		t.Errorf("March expenses = %v, want 150", march.Expenses)
	}
	if march.Profit != 1350 {
		t.Errorf("March profit = %v, want 1350", march.Profit)
	}
	if march.JobCount != 2 {
		t.Errorf("March job count = %d, want 2", march.JobCount)
	}
	if march.TopsheetCount != 1 {
		t.Errorf("March topsheet count = %d, want 1", march.TopsheetCount)
	}

	// Topsheets annotate counts only; July has no jobs, so no money.
	july := data.MonthlyProfit[6]
	if july.TopsheetCount != 1 {
		t.Errorf("July topsheet count = %d, want 1", july.TopsheetCount)
	}
	if july.Revenue != 0 || july.Expenses != 0 || july.Profit != 0 {
		t.Errorf("July money = %+v, want all zero", july)
	}

	if got := len(data.JobsByMonth["March"]); got != 2 {
		t.Errorf("March job summaries = %d, want 2", got)
	}
	if got := data.JobsByMonth["March"][0].Total; got != 1000 {
		t.Errorf("j1 summary total = %v, want 1000", got)
	}

	// Other-year records never leak in.
	for _, bucket := range data.MonthlyProfit {
		if bucket.Revenue > 1501 {
			t.Errorf("bucket %s revenue %v includes an out-of-year job", bucket.Month, bucket.Revenue)
		}
	}

	// Every month key exists even when empty.
	if _, ok := data.JobsByMonth["December"]; !ok {
		t.Error("December bucket missing")
	}
}
