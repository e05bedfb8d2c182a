// Package handlers wires the billbook HTTP surface over PocketBase
// request events. Handlers stay thin: parse, call services, persist,
// respond.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/services"
)

type measurementRequest struct {
	WidthFeet    float64 `json:"widthFeet"`
	WidthInches  float64 `json:"widthInches"`
	HeightFeet   float64 `json:"heightFeet"`
	HeightInches float64 `json:"heightInches"`
	Quantity     float64 `json:"quantity"`
	Description  string  `json:"description"`
}

type jobItemRequest struct {
	Description     string               `json:"description"`
	ExtraDetails    string               `json:"extraDetails"`
	Quantity        float64              `json:"quantity"`
	Unit            string               `json:"unit"`
	UnitPrice       float64              `json:"unitPrice"`
	BuyPrice        float64              `json:"buyPrice"`
	DiscountPercent float64              `json:"discountPercent"`
	VATRate         float64              `json:"vatRate"`
	AutoCalcSqft    bool                 `json:"autoCalcSqft"`
	Measurements    []measurementRequest `json:"measurements"`
}

// jobRequest is the create/update payload. Items is a pointer so an
// omitted items key (status-only update) is distinguishable from an
// explicit empty list (replace with nothing).
type jobRequest struct {
	RefNumber       string            `json:"refNumber"`
	Subject         string            `json:"subject"`
	Detail          string            `json:"detail"`
	Location        string            `json:"location"`
	Customer        string            `json:"customer"`
	Date            string            `json:"date"`
	Status          string            `json:"status"`
	QuotationDate   string            `json:"quotationDate"`
	ChallanDate     string            `json:"challanDate"`
	BillDate        string            `json:"billDate"`
	BillNumber      string            `json:"billNumber"`
	BBLBillNumber   string            `json:"bblBillNumber"`
	ChallanNumber   string            `json:"challanNumber"`
	DiscountPercent float64           `json:"discountPercent"`
	Notes           string            `json:"notes"`
	Terms           string            `json:"terms"`
	Items           *[]jobItemRequest `json:"items"`
}

// HandleJobCreate creates a job with its items and measurements in one
// transaction: either everything lands or nothing does.
func HandleJobCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req jobRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if req.RefNumber == "" {
			req.RefNumber = services.GenerateRefNumber(time.Now())
		}

		var jobID string
		err := app.RunInTransaction(func(txApp core.App) error {
			jobsCol, err := txApp.FindCollectionByNameOrId("jobs")
			if err != nil {
				return fmt.Errorf("jobs collection: %w", err)
			}

			job := core.NewRecord(jobsCol)
			applyJobFields(job, &req)

			items := []jobItemRequest{}
			if req.Items != nil {
				items = *req.Items
			}
			applyJobAggregates(job, items, req.DiscountPercent)

			if err := txApp.Save(job); err != nil {
				return fmt.Errorf("save job: %w", err)
			}
			jobID = job.Id

			return insertJobItems(txApp, job.Id, items)
		})
		if err != nil {
			log.Printf("job_create: %v", err)
			return e.String(http.StatusBadRequest, "Failed to create job")
		}

		return e.JSON(http.StatusOK, map[string]any{"id": jobID, "refNumber": req.RefNumber})
	}
}

// HandleJobUpdate updates a job as a partial patch: only the scalar
// fields present in the payload are written, so a minimal body like
// {"status": "bill"} flips the status and touches nothing else. When
// the payload carries an items list the existing items are replaced
// wholesale and the stored aggregates are recomputed; when it does not
// the aggregates are left byte for byte as they were.
func HandleJobUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		jobID := e.Request.PathValue("id")
		if jobID == "" {
			return e.String(http.StatusBadRequest, "Missing job ID")
		}

		body, err := io.ReadAll(e.Request.Body)
		if err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		var present map[string]json.RawMessage
		if err := json.Unmarshal(body, &present); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		var req jobRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		job, err := app.FindRecordById("jobs", jobID)
		if err != nil {
			return e.String(http.StatusNotFound, "Job not found")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			patchJobFields(job, &req, present)

			if req.Items != nil {
				if err := deleteJobItems(txApp, jobID); err != nil {
					return err
				}
				if err := insertJobItems(txApp, jobID, *req.Items); err != nil {
					return err
				}
				applyJobAggregates(job, *req.Items, job.GetFloat("discount_percent"))
			}

			if err := txApp.Save(job); err != nil {
				return fmt.Errorf("save job: %w", err)
			}
			return nil
		})
		if err != nil {
			log.Printf("job_update: %v", err)
			return e.String(http.StatusBadRequest, "Failed to update job")
		}

		return e.JSON(http.StatusOK, map[string]any{"id": jobID})
	}
}

// HandleJobList lists jobs with free-text search, status filter and
// pagination. The search matches ref number, subject, location and the
// customer's name.
func HandleJobList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()

		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}
		perPage, _ := strconv.Atoi(q.Get("perPage"))
		if perPage < 1 || perPage > 200 {
			perPage = 30
		}

		var conditions []string
		params := map[string]any{}
		if search := strings.TrimSpace(q.Get("search")); search != "" {
			conditions = append(conditions,
				"(ref_number ~ {:search} || subject ~ {:search} || location ~ {:search} || customer.name ~ {:search})")
			params["search"] = search
		}
		if status := q.Get("status"); status != "" {
			conditions = append(conditions, "status = {:status}")
			params["status"] = status
		}
		filter := strings.Join(conditions, " && ")
		if filter == "" {
			filter = "id != ''"
		}

		records, err := app.FindRecordsByFilter(
			"jobs", filter, "-date", perPage, (page-1)*perPage, params,
		)
		if err != nil {
			log.Printf("job_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list jobs")
		}

		// Count the filtered set, not the whole collection, so the
		// pagination math holds under a search or status filter.
		allMatches, err := app.FindRecordsByFilter("jobs", filter, "", 0, 0, params)
		if err != nil {
			allMatches = nil
		}
		total := len(allMatches)

		jobs := make([]map[string]any, 0, len(records))
		for _, r := range records {
			customerName := ""
			if customerID := r.GetString("customer"); customerID != "" {
				if customer, err := app.FindRecordById("customers", customerID); err == nil {
					customerName = customer.GetString("name")
				}
			}
			jobs = append(jobs, map[string]any{
				"id":           r.Id,
				"refNumber":    r.GetString("ref_number"),
				"subject":      r.GetString("subject"),
				"location":     r.GetString("location"),
				"customerName": customerName,
				"status":       r.GetString("status"),
				"date":         r.GetDateTime("date").Time(),
				"totalAmount":  r.GetFloat("total_amount"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"page":    page,
			"perPage": perPage,
			"total":   total,
			"jobs":    jobs,
		})
	}
}

// HandleJobView returns the full job snapshot with recomputed totals and
// expected profit. Stored aggregates are reported alongside but the
// authoritative figures come from the live children.
func HandleJobView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		jobID := e.Request.PathValue("id")
		if jobID == "" {
			return e.String(http.StatusBadRequest, "Missing job ID")
		}

		job, err := services.LoadJobData(app, jobID)
		if err != nil {
			log.Printf("job_view: %v", err)
			return e.String(http.StatusNotFound, "Job not found")
		}

		total := services.RecalcJobTotal(job.Items, job.TotalAmount)
		return e.JSON(http.StatusOK, map[string]any{
			"job":            job,
			"total":          total,
			"activeExpenses": services.ActiveExpenseTotal(job.Expenses),
			"expectedProfit": services.ExpectedProfit(job),
			"amountInWords":  services.AmountInWords(total),
		})
	}
}

// HandleJobDelete deletes a job; items, measurements and expenses go
// with it via cascade.
func HandleJobDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		jobID := e.Request.PathValue("id")
		if jobID == "" {
			return e.String(http.StatusBadRequest, "Missing job ID")
		}

		job, err := app.FindRecordById("jobs", jobID)
		if err != nil {
			return e.String(http.StatusNotFound, "Job not found")
		}
		if err := app.Delete(job); err != nil {
			log.Printf("job_delete: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to delete job")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": jobID})
	}
}

// ── Shared helpers ───────────────────────────────────────────────────

// applyJobFields copies the scalar request fields onto the record. It
// never touches the aggregate columns.
func applyJobFields(job *core.Record, req *jobRequest) {
	job.Set("ref_number", req.RefNumber)
	job.Set("subject", req.Subject)
	job.Set("detail", req.Detail)
	job.Set("location", req.Location)
	job.Set("customer", req.Customer)
	job.Set("date", req.Date)
	job.Set("status", req.Status)
	job.Set("quotation_date", req.QuotationDate)
	job.Set("challan_date", req.ChallanDate)
	job.Set("bill_date", req.BillDate)
	job.Set("bill_number", req.BillNumber)
	job.Set("bbl_bill_number", req.BBLBillNumber)
	job.Set("challan_number", req.ChallanNumber)
	job.Set("discount_percent", req.DiscountPercent)
	job.Set("notes", req.Notes)
	job.Set("terms", req.Terms)
}

// patchJobFields copies onto the record only the scalar fields whose
// keys appear in the payload. It never touches the aggregate columns.
func patchJobFields(job *core.Record, req *jobRequest, present map[string]json.RawMessage) {
	set := func(key, field string, value any) {
		if _, ok := present[key]; ok {
			job.Set(field, value)
		}
	}
	set("refNumber", "ref_number", req.RefNumber)
	set("subject", "subject", req.Subject)
	set("detail", "detail", req.Detail)
	set("location", "location", req.Location)
	set("customer", "customer", req.Customer)
	set("date", "date", req.Date)
	set("status", "status", req.Status)
	set("quotationDate", "quotation_date", req.QuotationDate)
	set("challanDate", "challan_date", req.ChallanDate)
	set("billDate", "bill_date", req.BillDate)
	set("billNumber", "bill_number", req.BillNumber)
	set("bblBillNumber", "bbl_bill_number", req.BBLBillNumber)
	set("challanNumber", "challan_number", req.ChallanNumber)
	set("discountPercent", "discount_percent", req.DiscountPercent)
	set("notes", "notes", req.Notes)
	set("terms", "terms", req.Terms)
}

func applyJobAggregates(job *core.Record, items []jobItemRequest, discountPercent float64) {
	itemData := make([]services.ItemData, 0, len(items))
	for _, it := range items {
		itemData = append(itemData, services.ItemData{
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			VATRate:         it.VATRate,
		})
	}
	totals := services.CalcJobTotals(itemData, discountPercent)
	job.Set("subtotal", totals.Subtotal)
	job.Set("total_vat", totals.TotalVAT)
	job.Set("discount_amount", totals.DiscountAmount)
	job.Set("total_amount", totals.TotalAmount)
	job.Set("amount_in_words", totals.AmountInWords)
}

func deleteJobItems(txApp core.App, jobID string) error {
	existing, err := txApp.FindRecordsByFilter(
		"job_items", "job = {:jobId}", "", 0, 0, map[string]any{"jobId": jobID},
	)
	if err != nil {
		return fmt.Errorf("find job items: %w", err)
	}
	for _, r := range existing {
		// Cascade removes the item's measurements.
		if err := txApp.Delete(r); err != nil {
			return fmt.Errorf("delete job item: %w", err)
		}
	}
	return nil
}

func insertJobItems(txApp core.App, jobID string, items []jobItemRequest) error {
	itemsCol, err := txApp.FindCollectionByNameOrId("job_items")
	if err != nil {
		return fmt.Errorf("job_items collection: %w", err)
	}
	measurementsCol, err := txApp.FindCollectionByNameOrId("measurements")
	if err != nil {
		return fmt.Errorf("measurements collection: %w", err)
	}

	for i, it := range items {
		calc := services.CalcLineItem(it.Quantity, it.UnitPrice, it.DiscountPercent, it.VATRate)

		r := core.NewRecord(itemsCol)
		r.Set("job", jobID)
		r.Set("serial", i+1)
		r.Set("sort_order", i+1)
		r.Set("description", it.Description)
		r.Set("extra_details", it.ExtraDetails)
		r.Set("quantity", it.Quantity)
		r.Set("unit", it.Unit)
		r.Set("unit_price", it.UnitPrice)
		r.Set("buy_price", it.BuyPrice)
		r.Set("discount_percent", it.DiscountPercent)
		r.Set("vat_rate", it.VATRate)
		r.Set("auto_calc_sqft", it.AutoCalcSqft)
		r.Set("subtotal", calc.Subtotal)
		r.Set("discount_amount", calc.DiscountAmount)
		r.Set("vat_amount", calc.VATAmount)
		r.Set("total", calc.Total)

		if it.AutoCalcSqft {
			ms := make([]services.Measurement, 0, len(it.Measurements))
			for _, m := range it.Measurements {
				ms = append(ms, services.Measurement{
					WidthFeet:    m.WidthFeet,
					WidthInches:  m.WidthInches,
					HeightFeet:   m.HeightFeet,
					HeightInches: m.HeightInches,
					Quantity:     m.Quantity,
				})
			}
			r.Set("calculated_sqft", services.SumMeasurementSqft(ms))
		}

		if err := txApp.Save(r); err != nil {
			return fmt.Errorf("save job item %d: %w", i+1, err)
		}

		for j, m := range it.Measurements {
			mr := core.NewRecord(measurementsCol)
			mr.Set("item", r.Id)
			mr.Set("width_feet", m.WidthFeet)
			mr.Set("width_inches", m.WidthInches)
			mr.Set("height_feet", m.HeightFeet)
			mr.Set("height_inches", m.HeightInches)
			mr.Set("quantity", m.Quantity)
			mr.Set("calculated_sqft", services.CalcSqft(m.WidthFeet, m.WidthInches, m.HeightFeet, m.HeightInches, m.Quantity))
			mr.Set("description", m.Description)
			mr.Set("sort_order", j+1)
			if err := txApp.Save(mr); err != nil {
				return fmt.Errorf("save measurement %d.%d: %w", i+1, j+1, err)
			}
		}
	}
	return nil
}
