package services

// Aggregate recalculation. Stored totals on jobs and topsheets are
// advisory caches; everything reported to a caller is recomputed from the
// live children, with the stored value as fallback.

// RecalcJobTotal returns the authoritative total for a job: the sum of
// its items' recomputed line totals. When the job has no items, or the
// items sum to zero or less, the stored total wins — a manually entered
// total must survive an all-free item list.
func RecalcJobTotal(items []ItemData, storedTotal float64) float64 {
	if len(items) == 0 {
		return storedTotal
	}
	var sum float64
	for _, it := range items {
		sum += CalcLineItem(it.Quantity, it.UnitPrice, it.DiscountPercent, it.VATRate).Total
	}
	if sum > 0 {
		return sum
	}
	return storedTotal
}

// ActiveExpenseTotal sums the active expenses of a job. Soft-deleted
// entries are skipped, never removed.
func ActiveExpenseTotal(expenses []ExpenseData) float64 {
	var sum float64
	for _, e := range expenses {
		if e.IsActive {
			sum += e.Amount
		}
	}
	return sum
}

// ExpectedProfit is the job's recomputed total minus its active expenses.
func ExpectedProfit(job *JobData) float64 {
	return RecalcJobTotal(job.Items, job.TotalAmount) - ActiveExpenseTotal(job.Expenses)
}

// JobTotals is the persist-time rollup written onto a job record whenever
// its items change.
type JobTotals struct {
	Subtotal       float64
	TotalVAT       float64
	DiscountAmount float64
	TotalAmount    float64
	AmountInWords  string
}

// CalcJobTotals rolls the items up into the job-level aggregates:
//
//	subtotal       = sum(item.subtotal)
//	discountAmount = subtotal * jobDiscountPercent / 100
//	totalAmount    = (subtotal - discountAmount) + totalVAT
//
// The job-level discount applies on top of per-item discounts. VAT
// currently sums to zero (see CalcLineItem) but stays in the formula.
func CalcJobTotals(items []ItemData, jobDiscountPercent float64) JobTotals {
	var subtotal, totalVAT float64
	for _, it := range items {
		c := CalcLineItem(it.Quantity, it.UnitPrice, it.DiscountPercent, it.VATRate)
		subtotal += c.Subtotal
		totalVAT += c.VATAmount
	}
	discount := subtotal * jobDiscountPercent / 100
	total := (subtotal - discount) + totalVAT

	return JobTotals{
		Subtotal:       subtotal,
		TotalVAT:       totalVAT,
		DiscountAmount: discount,
		TotalAmount:    total,
		AmountInWords:  AmountInWords(total),
	}
}

// TopsheetTotals is the read-time rollup of a topsheet. A topsheet has
// no stored total field of its own.
type TopsheetTotals struct {
	GrandTotal    float64
	TotalExpenses float64
	TotalProfit   float64
}

// CalcTopsheetTotals sums the recomputed totals and active expenses of
// every member job.
func CalcTopsheetTotals(jobs []JobData) TopsheetTotals {
	var t TopsheetTotals
	for i := range jobs {
		t.GrandTotal += RecalcJobTotal(jobs[i].Items, jobs[i].TotalAmount)
		t.TotalExpenses += ActiveExpenseTotal(jobs[i].Expenses)
	}
	t.TotalProfit = t.GrandTotal - t.TotalExpenses
	return t
}
