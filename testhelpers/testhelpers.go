// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCustomer creates a customer record with the given name.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("address_line_1", "House 1, Road 1, Banani")
	record.Set("address_line_2", "Dhaka 1213")
	record.Set("phone", "+880 1700-111111")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestJob creates a job record linked to a customer.
func CreateTestJob(t *testing.T, app *pocketbase.PocketBase, customerID, refNumber string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("jobs")
	if err != nil {
		t.Fatalf("failed to find jobs collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("ref_number", refNumber)
	record.Set("subject", "Test signage works")
	record.Set("detail", "Signboard fabrication")
	record.Set("location", "Gulshan, Dhaka")
	record.Set("customer", customerID)
	record.Set("date", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
	record.Set("status", "quotation")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test job: %v", err)
	}

	return record
}

// CreateTestJobItem creates a job item with derived money fields persisted.
func CreateTestJobItem(t *testing.T, app *pocketbase.PocketBase, jobID, description string, quantity, unitPrice float64, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("job_items")
	if err != nil {
		t.Fatalf("failed to find job_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("job", jobID)
	record.Set("serial", sortOrder)
	record.Set("sort_order", sortOrder)
	record.Set("description", description)
	record.Set("quantity", quantity)
	record.Set("unit", "pcs")
	record.Set("unit_price", unitPrice)
	record.Set("subtotal", quantity*unitPrice)
	record.Set("total", quantity*unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test job item: %v", err)
	}

	return record
}

// CreateTestMeasurement creates a measurement under a job item.
func CreateTestMeasurement(t *testing.T, app *pocketbase.PocketBase, itemID string, widthFeet, heightFeet, quantity float64, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("measurements")
	if err != nil {
		t.Fatalf("failed to find measurements collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", itemID)
	record.Set("width_feet", widthFeet)
	record.Set("height_feet", heightFeet)
	record.Set("quantity", quantity)
	record.Set("calculated_sqft", widthFeet*heightFeet*quantity)
	record.Set("sort_order", sortOrder)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test measurement: %v", err)
	}

	return record
}

// CreateTestExpense creates an expense against a job.
func CreateTestExpense(t *testing.T, app *pocketbase.PocketBase, jobID, description string, amount float64, active bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("expenses")
	if err != nil {
		t.Fatalf("failed to find expenses collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("job", jobID)
	record.Set("description", description)
	record.Set("category", "Material")
	record.Set("amount", amount)
	record.Set("date", time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	record.Set("is_active", active)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test expense: %v", err)
	}

	return record
}

// CreateTestTopsheet creates a topsheet record.
func CreateTestTopsheet(t *testing.T, app *pocketbase.PocketBase, number, customerName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("topsheets")
	if err != nil {
		t.Fatalf("failed to find topsheets collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("topsheet_number", number)
	record.Set("date", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	record.Set("customer_name", customerName)
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test topsheet: %v", err)
	}

	return record
}
