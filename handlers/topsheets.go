package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/services"
)

type topsheetRequest struct {
	Number          string   `json:"number"`
	Date            string   `json:"date"`
	CustomerName    string   `json:"customerName"`
	CustomerAddress string   `json:"customerAddress"`
	Status          string   `json:"status"`
	JobIDs          []string `json:"jobIds"`
}

// HandleTopsheetCreate creates a topsheet and links the listed jobs.
func HandleTopsheetCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req topsheetRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Number == "" {
			return e.String(http.StatusBadRequest, "Missing topsheet number")
		}

		var topsheetID string
		err := app.RunInTransaction(func(txApp core.App) error {
			col, err := txApp.FindCollectionByNameOrId("topsheets")
			if err != nil {
				return fmt.Errorf("topsheets collection: %w", err)
			}

			record := core.NewRecord(col)
			record.Set("topsheet_number", req.Number)
			record.Set("date", req.Date)
			record.Set("customer_name", req.CustomerName)
			record.Set("customer_address", req.CustomerAddress)
			record.Set("status", statusOrDraft(req.Status))
			if err := txApp.Save(record); err != nil {
				return fmt.Errorf("save topsheet: %w", err)
			}
			topsheetID = record.Id

			return connectJobs(txApp, record.Id, req.JobIDs)
		})
		if err != nil {
			log.Printf("topsheet_create: %v", err)
			return e.String(http.StatusBadRequest, "Failed to create topsheet")
		}

		return e.JSON(http.StatusOK, map[string]any{"id": topsheetID})
	}
}

// HandleTopsheetUpdate updates a topsheet. Job membership is replaced
// with disconnect-then-reconnect: every currently linked job is
// unlinked, then the requested set is linked, so the request list is
// the complete new membership.
func HandleTopsheetUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		topsheetID := e.Request.PathValue("id")
		record, err := app.FindRecordById("topsheets", topsheetID)
		if err != nil {
			return e.String(http.StatusNotFound, "Topsheet not found")
		}

		var req topsheetRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			if req.Number != "" {
				record.Set("topsheet_number", req.Number)
			}
			record.Set("date", req.Date)
			record.Set("customer_name", req.CustomerName)
			record.Set("customer_address", req.CustomerAddress)
			record.Set("status", statusOrDraft(req.Status))
			if err := txApp.Save(record); err != nil {
				return fmt.Errorf("save topsheet: %w", err)
			}

			if err := disconnectJobs(txApp, topsheetID); err != nil {
				return err
			}
			return connectJobs(txApp, topsheetID, req.JobIDs)
		})
		if err != nil {
			log.Printf("topsheet_update: %v", err)
			return e.String(http.StatusBadRequest, "Failed to update topsheet")
		}

		return e.JSON(http.StatusOK, map[string]any{"id": topsheetID})
	}
}

// HandleTopsheetView returns the topsheet with its member jobs and the
// live rollup.
func HandleTopsheetView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		topsheetID := e.Request.PathValue("id")
		ts, err := services.LoadTopsheetData(app, topsheetID)
		if err != nil {
			log.Printf("topsheet_view: %v", err)
			return e.String(http.StatusNotFound, "Topsheet not found")
		}

		totals := services.CalcTopsheetTotals(ts.Jobs)
		return e.JSON(http.StatusOK, map[string]any{
			"topsheet":      ts,
			"grandTotal":    totals.GrandTotal,
			"totalExpenses": totals.TotalExpenses,
			"totalProfit":   totals.TotalProfit,
			"amountInWords": services.AmountInWords(totals.GrandTotal),
		})
	}
}

// HandleTopsheetList lists topsheets, newest first.
func HandleTopsheetList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("topsheets", "id != ''", "-date", 0, 0, nil)
		if err != nil {
			log.Printf("topsheet_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list topsheets")
		}

		out := make([]map[string]any, 0, len(records))
		for _, r := range records {
			out = append(out, map[string]any{
				"id":           r.Id,
				"number":       r.GetString("topsheet_number"),
				"date":         r.GetDateTime("date").Time(),
				"customerName": r.GetString("customer_name"),
				"status":       r.GetString("status"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"topsheets": out})
	}
}

// HandleTopsheetDelete deletes a topsheet after unlinking its jobs; the
// jobs themselves survive.
func HandleTopsheetDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		topsheetID := e.Request.PathValue("id")
		record, err := app.FindRecordById("topsheets", topsheetID)
		if err != nil {
			return e.String(http.StatusNotFound, "Topsheet not found")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := disconnectJobs(txApp, topsheetID); err != nil {
				return err
			}
			return txApp.Delete(record)
		})
		if err != nil {
			log.Printf("topsheet_delete: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to delete topsheet")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": topsheetID})
	}
}

func disconnectJobs(txApp core.App, topsheetID string) error {
	linked, err := txApp.FindRecordsByFilter(
		"jobs", "topsheet = {:topsheetId}", "", 0, 0, map[string]any{"topsheetId": topsheetID},
	)
	if err != nil {
		return fmt.Errorf("find linked jobs: %w", err)
	}
	for _, job := range linked {
		job.Set("topsheet", "")
		if err := txApp.Save(job); err != nil {
			return fmt.Errorf("unlink job %s: %w", job.Id, err)
		}
	}
	return nil
}

func connectJobs(txApp core.App, topsheetID string, jobIDs []string) error {
	for _, jobID := range jobIDs {
		job, err := txApp.FindRecordById("jobs", jobID)
		if err != nil {
			return fmt.Errorf("job %s not found: %w", jobID, err)
		}
		job.Set("topsheet", topsheetID)
		if err := txApp.Save(job); err != nil {
			return fmt.Errorf("link job %s: %w", jobID, err)
		}
	}
	return nil
}

func statusOrDraft(status string) string {
	if status == "" {
		return "draft"
	}
	return status
}
