package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"billbook/testhelpers"
)

func TestHandleExpenseCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	job := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-7001")

	body := `{"job": "` + job.Id + `", "description": "Vinyl roll", "category": "Material", "amount": 450}`
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(http.MethodPost, "/expenses", body), rec)
	if err := HandleExpenseCreate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	expenses, err := app.FindRecordsByFilter("expenses", "job = {:j}", "", 0, 0, map[string]any{"j": job.Id})
	if err != nil || len(expenses) != 1 {
		t.Fatalf("expenses = %d (%v), want 1", len(expenses), err)
	}
	if !expenses[0].GetBool("is_active") {
		t.Error("new expense should be active")
	}
}

func TestHandleExpenseCreateMissingJob(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	body := `{"job": "nope", "description": "Vinyl roll", "amount": 450}`
	e := newTestRequestEvent(app, newJSONRequest(http.MethodPost, "/expenses", body), rec)
	if err := HandleExpenseCreate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleExpenseDeleteIsSoft(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	job := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-7002")
	testhelpers.CreateTestJobItem(t, app, job.Id, "Item", 1, 1000, 1)
	expense := testhelpers.CreateTestExpense(t, app, job.Id, "Paint", 150, true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/expenses/"+expense.Id, nil)
	req.SetPathValue("id", expense.Id)
	e := newTestRequestEvent(app, req, rec)
	if err := HandleExpenseDelete(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The row survives, flagged inactive.
	kept, err := app.FindRecordById("expenses", expense.Id)
	if err != nil {
		t.Fatalf("expense row was hard-deleted: %v", err)
	}
	if kept.GetBool("is_active") {
		t.Error("expense still active after delete")
	}
}

func TestResyncJobAggregatesSkipsItemlessJobs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	job := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-7003")
	job.Set("total_amount", 5000) // manually entered, no items backing it
	if err := app.Save(job); err != nil {
		t.Fatalf("save job: %v", err)
	}
	expense := testhelpers.CreateTestExpense(t, app, job.Id, "Transport", 200, true)

	rec := httptest.NewRecorder()
	req := newJSONRequest(http.MethodPost, "/expenses/"+expense.Id, `{"description": "Transport", "amount": 250}`)
	req.SetPathValue("id", expense.Id)
	e := newTestRequestEvent(app, req, rec)
	if err := HandleExpenseUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	updated, _ := app.FindRecordById("jobs", job.Id)
	if got := updated.GetFloat("total_amount"); got != 5000 {
		t.Errorf("manual total clobbered: %v, want 5000", got)
	}
}
