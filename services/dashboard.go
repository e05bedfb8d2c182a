package services

import "time"

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// JobSummary is the dashboard-facing shape of a job.
type JobSummary struct {
	ID           string    `json:"id"`
	RefNumber    string    `json:"refNumber"`
	Subject      string    `json:"subject"`
	CustomerName string    `json:"customerName"`
	Status       string    `json:"status"`
	Date         time.Time `json:"date"`
	Total        float64   `json:"total"`
}

// MonthBucket is one month of the profit rollup. Revenue, expenses and
// profit come from jobs only; the topsheet count is informational and
// never feeds the money figures.
type MonthBucket struct {
	Month         string  `json:"month"`
	Revenue       float64 `json:"revenue"`
	Expenses      float64 `json:"expenses"`
	Profit        float64 `json:"profit"`
	JobCount      int     `json:"jobCount"`
	TopsheetCount int     `json:"topsheetCount"`
}

// DashboardData is the monthly rollup for one calendar year.
type DashboardData struct {
	Year          int                     `json:"year"`
	JobsByMonth   map[string][]JobSummary `json:"jobsByMonth"`
	MonthlyProfit []MonthBucket           `json:"monthlyProfit"`
}

// MonthlyRollup buckets jobs by the calendar month of their date field
// (not any milestone date) and aggregates revenue/expenses/profit per
// bucket. Jobs are the single source of truth for the money figures;
// topsheets are counted in a separate pass purely as an annotation,
// because topsheet data may lag behind or duplicate job data.
func MonthlyRollup(year int, jobs []JobData, topsheets []TopsheetData) DashboardData {
	data := DashboardData{
		Year:          year,
		JobsByMonth:   make(map[string][]JobSummary, 12),
		MonthlyProfit: make([]MonthBucket, 12),
	}
	for i, name := range monthNames {
		data.JobsByMonth[name] = []JobSummary{}
		data.MonthlyProfit[i] = MonthBucket{Month: name}
	}

	for i := range jobs {
		job := &jobs[i]
		if job.Date.Year() != year {
			continue
		}
		month := int(job.Date.Month()) - 1
		total := RecalcJobTotal(job.Items, job.TotalAmount)

		data.JobsByMonth[monthNames[month]] = append(data.JobsByMonth[monthNames[month]], JobSummary{
			ID:           job.ID,
			RefNumber:    job.RefNumber,
			Subject:      job.Subject,
			CustomerName: job.CustomerName,
			Status:       job.Status,
			Date:         job.Date,
			Total:        total,
		})
	}

	for i := range jobs {
		job := &jobs[i]
		if job.Date.Year() != year {
			continue
		}
		bucket := &data.MonthlyProfit[int(job.Date.Month())-1]
		revenue := RecalcJobTotal(job.Items, job.TotalAmount)
		expenses := ActiveExpenseTotal(job.Expenses)
		bucket.Revenue += revenue
		bucket.Expenses += expenses
		bucket.Profit += revenue - expenses
		bucket.JobCount++
	}

	// Topsheet pass: counts only.
	for i := range topsheets {
		ts := &topsheets[i]
		if ts.Date.Year() != year {
			continue
		}
		data.MonthlyProfit[int(ts.Date.Month())-1].TopsheetCount++
	}

	return data
}
