package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"billbook/testhelpers"
)

func TestHandleTopsheetCreateLinksJobs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	job1 := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-8001")
	job2 := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-8002")

	body := `{
		"number": "BILL-202603-0001",
		"date": "2026-03-10 00:00:00.000Z",
		"customerName": "Acme",
		"jobIds": ["` + job1.Id + `", "` + job2.Id + `"]
	}`
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(http.MethodPost, "/topsheets", body), rec)
	if err := HandleTopsheetCreate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	for _, id := range []string{job1.Id, job2.Id} {
		job, err := app.FindRecordById("jobs", id)
		if err != nil {
			t.Fatalf("reload job: %v", err)
		}
		if got := job.GetString("topsheet"); got != resp.ID {
			t.Errorf("job %s topsheet = %q, want %q", id, got, resp.ID)
		}
	}

	ts, _ := app.FindRecordById("topsheets", resp.ID)
	if got := ts.GetString("status"); got != "draft" {
		t.Errorf("status = %q, want defaulted draft", got)
	}
}

func TestHandleTopsheetUpdateReplacesMembership(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	job1 := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-8003")
	job2 := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-8004")
	ts := testhelpers.CreateTestTopsheet(t, app, "BILL-202603-0002", "Acme")
	job1.Set("topsheet", ts.Id)
	if err := app.Save(job1); err != nil {
		t.Fatalf("link job: %v", err)
	}

	body := `{"number": "BILL-202603-0002", "customerName": "Acme", "jobIds": ["` + job2.Id + `"]}`
	rec := httptest.NewRecorder()
	req := newJSONRequest(http.MethodPost, "/topsheets/"+ts.Id, body)
	req.SetPathValue("id", ts.Id)
	e := newTestRequestEvent(app, req, rec)
	if err := HandleTopsheetUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	reloaded1, _ := app.FindRecordById("jobs", job1.Id)
	if got := reloaded1.GetString("topsheet"); got != "" {
		t.Errorf("old member still linked: %q", got)
	}
	reloaded2, _ := app.FindRecordById("jobs", job2.Id)
	if got := reloaded2.GetString("topsheet"); got != ts.Id {
		t.Errorf("new member not linked: %q", got)
	}
}

func TestHandleTopsheetViewComputesRollup(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	job := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-8005")
	testhelpers.CreateTestJobItem(t, app, job.Id, "Item", 2, 1500, 1)
	testhelpers.CreateTestExpense(t, app, job.Id, "Paint", 500, true)
	ts := testhelpers.CreateTestTopsheet(t, app, "BILL-202603-0003", "Acme")
	job.Set("topsheet", ts.Id)
	if err := app.Save(job); err != nil {
		t.Fatalf("link job: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/topsheets/"+ts.Id, nil)
	req.SetPathValue("id", ts.Id)
	e := newTestRequestEvent(app, req, rec)
	if err := HandleTopsheetView(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		GrandTotal    float64 `json:"grandTotal"`
		TotalExpenses float64 `json:"totalExpenses"`
		TotalProfit   float64 `json:"totalProfit"`
		AmountInWords string  `json:"amountInWords"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.GrandTotal != 3000 {
		t.Errorf("grandTotal = %v, want 3000", resp.GrandTotal)
	}
	if resp.TotalExpenses != 500 {
		t.Errorf("totalExpenses = %v, want 500", resp.TotalExpenses)
	}
	if resp.TotalProfit != 2500 {
		t.Errorf("totalProfit = %v, want 2500", resp.TotalProfit)
	}
	if resp.AmountInWords != "Three Thousand Taka Only" {
		t.Errorf("amountInWords = %q", resp.AmountInWords)
	}
}

func TestHandleTopsheetDeleteKeepsJobs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	job := testhelpers.CreateTestJob(t, app, customer.Id, "JOB-202603-8006")
	ts := testhelpers.CreateTestTopsheet(t, app, "BILL-202603-0004", "Acme")
	job.Set("topsheet", ts.Id)
	if err := app.Save(job); err != nil {
		t.Fatalf("link job: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/topsheets/"+ts.Id, nil)
	req.SetPathValue("id", ts.Id)
	e := newTestRequestEvent(app, req, rec)
	if err := HandleTopsheetDelete(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := app.FindRecordById("topsheets", ts.Id); err == nil {
		t.Error("topsheet still exists")
	}
	survivor, err := app.FindRecordById("jobs", job.Id)
	if err != nil {
		t.Fatalf("job deleted along with topsheet: %v", err)
	}
	if got := survivor.GetString("topsheet"); got != "" {
		t.Errorf("job still linked to deleted topsheet: %q", got)
	}
}
