package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/services"
)

// HandleDashboard returns the monthly rollup for a calendar year
// (default: the current one). Money figures come from jobs; topsheets
// contribute counts only.
func HandleDashboard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		year := time.Now().Year()
		if y := e.Request.URL.Query().Get("year"); y != "" {
			parsed, err := strconv.Atoi(y)
			if err != nil || parsed < 2000 || parsed > 2200 {
				return e.String(http.StatusBadRequest, "Invalid year")
			}
			year = parsed
		}

		jobRecords, err := app.FindRecordsByFilter("jobs", "id != ''", "date", 0, 0, nil)
		if err != nil {
			log.Printf("dashboard: list jobs: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load dashboard")
		}

		jobs := make([]services.JobData, 0, len(jobRecords))
		for _, r := range jobRecords {
			job, err := services.LoadJobData(app, r.Id)
			if err != nil {
				log.Printf("dashboard: load job %s: %v", r.Id, err)
				continue
			}
			jobs = append(jobs, *job)
		}

		topsheetRecords, err := app.FindRecordsByFilter("topsheets", "id != ''", "date", 0, 0, nil)
		if err != nil {
			topsheetRecords = nil
		}
		topsheets := make([]services.TopsheetData, 0, len(topsheetRecords))
		for _, r := range topsheetRecords {
			topsheets = append(topsheets, services.TopsheetData{
				ID:   r.Id,
				Date: r.GetDateTime("date").Time(),
			})
		}

		return e.JSON(http.StatusOK, services.MonthlyRollup(year, jobs, topsheets))
	}
}
