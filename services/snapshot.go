package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ItemData is one priced row of a job, with its measurements eagerly loaded.
type ItemData struct {
	ID              string
	Serial          int
	Description     string
	ExtraDetails    string
	Quantity        float64
	Unit            string
	UnitPrice       float64
	BuyPrice        float64
	DiscountPercent float64
	VATRate         float64
	AutoCalcSqft    bool
	CalculatedSqft  float64
	Measurements    []Measurement
}

// ExpenseData is one cost entry against a job. Inactive entries are
// soft-deleted: kept for audit, excluded from every total.
type ExpenseData struct {
	ID          string
	Description string
	Category    string
	Amount      float64
	Date        time.Time
	IsActive    bool
}

// JobData is a fully-materialized job snapshot: the stored record plus
// its ordered items (with measurements) and expenses. Render and rollup
// code works on this snapshot only and never goes back to the database.
type JobData struct {
	ID               string
	RefNumber        string
	Subject          string
	Detail           string
	Location         string
	CustomerName     string
	CustomerAddress1 string
	CustomerAddress2 string
	Date             time.Time
	Status           string
	QuotationDate    time.Time
	ChallanDate      time.Time
	BillDate         time.Time
	BillNumber       string
	BBLBillNumber    string
	ChallanNumber    string
	DiscountPercent  float64
	Notes            string
	Terms            string
	TopsheetID       string

	// Stored aggregates. Advisory caches only: every reported total is
	// recomputed from the children, these fields are the fallback.
	Subtotal       float64
	TotalVAT       float64
	DiscountAmount float64
	TotalAmount    float64
	AmountInWords  string

	Items    []ItemData
	Expenses []ExpenseData
}

// TopsheetData is a topsheet snapshot with its member jobs eagerly loaded.
// The customer name/address are the snapshot captured at creation time,
// not a live join.
type TopsheetData struct {
	ID              string
	Number          string
	Date            time.Time
	CustomerName    string
	CustomerAddress string
	Status          string
	Jobs            []JobData
}

// LoadJobData fetches a job with nested items (ordered by sort_order),
// measurements (ordered by sort_order) and expenses (ordered by creation,
// inactive ones included so callers can audit them).
func LoadJobData(app *pocketbase.PocketBase, jobID string) (*JobData, error) {
	record, err := app.FindRecordById("jobs", jobID)
	if err != nil {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	return jobDataFromRecord(app, record)
}

func jobDataFromRecord(app *pocketbase.PocketBase, record *core.Record) (*JobData, error) {
	job := &JobData{
		ID:              record.Id,
		RefNumber:       record.GetString("ref_number"),
		Subject:         record.GetString("subject"),
		Detail:          record.GetString("detail"),
		Location:        record.GetString("location"),
		Date:            record.GetDateTime("date").Time(),
		Status:          record.GetString("status"),
		QuotationDate:   record.GetDateTime("quotation_date").Time(),
		ChallanDate:     record.GetDateTime("challan_date").Time(),
		BillDate:        record.GetDateTime("bill_date").Time(),
		BillNumber:      record.GetString("bill_number"),
		BBLBillNumber:   record.GetString("bbl_bill_number"),
		ChallanNumber:   record.GetString("challan_number"),
		DiscountPercent: record.GetFloat("discount_percent"),
		Notes:           record.GetString("notes"),
		Terms:           record.GetString("terms"),
		TopsheetID:      record.GetString("topsheet"),
		Subtotal:        record.GetFloat("subtotal"),
		TotalVAT:        record.GetFloat("total_vat"),
		DiscountAmount:  record.GetFloat("discount_amount"),
		TotalAmount:     record.GetFloat("total_amount"),
		AmountInWords:   record.GetString("amount_in_words"),
		Items:           []ItemData{},
		Expenses:        []ExpenseData{},
	}

	if customerID := record.GetString("customer"); customerID != "" {
		customer, err := app.FindRecordById("customers", customerID)
		if err == nil {
			job.CustomerName = customer.GetString("name")
			job.CustomerAddress1 = customer.GetString("address_line_1")
			job.CustomerAddress2 = customer.GetString("address_line_2")
		}
	}

	itemRecords, err := app.FindRecordsByFilter(
		"job_items",
		"job = {:jobId}",
		"sort_order",
		0, 0,
		map[string]any{"jobId": record.Id},
	)
	if err != nil {
		itemRecords = nil
	}

	for i, ir := range itemRecords {
		item := ItemData{
			ID:              ir.Id,
			Serial:          i + 1,
			Description:     ir.GetString("description"),
			ExtraDetails:    ir.GetString("extra_details"),
			Quantity:        ir.GetFloat("quantity"),
			Unit:            ir.GetString("unit"),
			UnitPrice:       ir.GetFloat("unit_price"),
			BuyPrice:        ir.GetFloat("buy_price"),
			DiscountPercent: ir.GetFloat("discount_percent"),
			VATRate:         ir.GetFloat("vat_rate"),
			AutoCalcSqft:    ir.GetBool("auto_calc_sqft"),
			CalculatedSqft:  ir.GetFloat("calculated_sqft"),
		}

		measurementRecords, err := app.FindRecordsByFilter(
			"measurements",
			"item = {:itemId}",
			"sort_order",
			0, 0,
			map[string]any{"itemId": ir.Id},
		)
		if err != nil {
			measurementRecords = nil
		}
		for _, mr := range measurementRecords {
			item.Measurements = append(item.Measurements, Measurement{
				WidthFeet:    mr.GetFloat("width_feet"),
				WidthInches:  mr.GetFloat("width_inches"),
				HeightFeet:   mr.GetFloat("height_feet"),
				HeightInches: mr.GetFloat("height_inches"),
				Quantity:     mr.GetFloat("quantity"),
				Sqft:         mr.GetFloat("calculated_sqft"),
				Description:  mr.GetString("description"),
				SortOrder:    int(mr.GetFloat("sort_order")),
			})
		}

		job.Items = append(job.Items, item)
	}

	expenseRecords, err := app.FindRecordsByFilter(
		"expenses",
		"job = {:jobId}",
		"created",
		0, 0,
		map[string]any{"jobId": record.Id},
	)
	if err != nil {
		expenseRecords = nil
	}
	for _, er := range expenseRecords {
		job.Expenses = append(job.Expenses, ExpenseData{
			ID:          er.Id,
			Description: er.GetString("description"),
			Category:    er.GetString("category"),
			Amount:      er.GetFloat("amount"),
			Date:        er.GetDateTime("date").Time(),
			IsActive:    er.GetBool("is_active"),
		})
	}

	return job, nil
}

// LoadTopsheetData fetches a topsheet and every job pointing at it, each
// job loaded with the same depth as LoadJobData.
func LoadTopsheetData(app *pocketbase.PocketBase, topsheetID string) (*TopsheetData, error) {
	record, err := app.FindRecordById("topsheets", topsheetID)
	if err != nil {
		return nil, fmt.Errorf("topsheet not found: %w", err)
	}

	ts := &TopsheetData{
		ID:              record.Id,
		Number:          record.GetString("topsheet_number"),
		Date:            record.GetDateTime("date").Time(),
		CustomerName:    record.GetString("customer_name"),
		CustomerAddress: record.GetString("customer_address"),
		Status:          record.GetString("status"),
		Jobs:            []JobData{},
	}

	jobRecords, err := app.FindRecordsByFilter(
		"jobs",
		"topsheet = {:topsheetId}",
		"date",
		0, 0,
		map[string]any{"topsheetId": topsheetID},
	)
	if err != nil {
		jobRecords = nil
	}
	for _, jr := range jobRecords {
		job, err := jobDataFromRecord(app, jr)
		if err != nil {
			return nil, err
		}
		ts.Jobs = append(ts.Jobs, *job)
	}

	return ts, nil
}
