package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/services"
)

type expenseRequest struct {
	Job         string  `json:"job"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

// HandleExpenseCreate records a new active expense against a job.
func HandleExpenseCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req expenseRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Job == "" {
			return e.String(http.StatusBadRequest, "Missing job")
		}
		if _, err := app.FindRecordById("jobs", req.Job); err != nil {
			return e.String(http.StatusNotFound, "Job not found")
		}

		col, err := app.FindCollectionByNameOrId("expenses")
		if err != nil {
			log.Printf("expense_create: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to create expense")
		}

		record := core.NewRecord(col)
		record.Set("job", req.Job)
		record.Set("description", req.Description)
		record.Set("category", req.Category)
		record.Set("amount", req.Amount)
		record.Set("date", req.Date)
		record.Set("is_active", true)
		if err := app.Save(record); err != nil {
			log.Printf("expense_create: %v", err)
			return e.String(http.StatusBadRequest, "Failed to create expense")
		}

		if err := resyncJobAggregates(app, req.Job); err != nil {
			log.Printf("expense_create: resync: %v", err)
		}
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}

// HandleExpenseUpdate edits an existing expense.
func HandleExpenseUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		expenseID := e.Request.PathValue("id")
		record, err := app.FindRecordById("expenses", expenseID)
		if err != nil {
			return e.String(http.StatusNotFound, "Expense not found")
		}

		var req expenseRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		record.Set("description", req.Description)
		record.Set("category", req.Category)
		record.Set("amount", req.Amount)
		record.Set("date", req.Date)
		if err := app.Save(record); err != nil {
			log.Printf("expense_update: %v", err)
			return e.String(http.StatusBadRequest, "Failed to update expense")
		}

		if err := resyncJobAggregates(app, record.GetString("job")); err != nil {
			log.Printf("expense_update: resync: %v", err)
		}
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}

// HandleExpenseDelete soft-deletes an expense: the row stays for audit,
// flagged inactive and excluded from every total.
func HandleExpenseDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		expenseID := e.Request.PathValue("id")
		record, err := app.FindRecordById("expenses", expenseID)
		if err != nil {
			return e.String(http.StatusNotFound, "Expense not found")
		}

		record.Set("is_active", false)
		if err := app.Save(record); err != nil {
			log.Printf("expense_delete: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to delete expense")
		}

		if err := resyncJobAggregates(app, record.GetString("job")); err != nil {
			log.Printf("expense_delete: resync: %v", err)
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": expenseID})
	}
}

// resyncJobAggregates recomputes and persists a job's stored aggregates
// from its current items. Called after any child mutation so the cached
// values stay close to the truth (readers recompute regardless).
func resyncJobAggregates(app *pocketbase.PocketBase, jobID string) error {
	if jobID == "" {
		return nil
	}
	job, err := app.FindRecordById("jobs", jobID)
	if err != nil {
		return fmt.Errorf("job not found: %w", err)
	}
	data, err := services.LoadJobData(app, jobID)
	if err != nil {
		return err
	}
	// A job without items may carry a manually entered total; leave it.
	if len(data.Items) == 0 {
		return nil
	}

	totals := services.CalcJobTotals(data.Items, job.GetFloat("discount_percent"))
	job.Set("subtotal", totals.Subtotal)
	job.Set("total_vat", totals.TotalVAT)
	job.Set("discount_amount", totals.DiscountAmount)
	job.Set("total_amount", totals.TotalAmount)
	job.Set("amount_in_words", totals.AmountInWords)
	return app.Save(job)
}
