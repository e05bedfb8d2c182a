package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"billbook/testhelpers"
)

func TestHandleCustomerCreateAndList(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := `{"name": "Meghna Builders Ltd", "addressLine1": "House 12, Road 5", "phone": "+880 1711-000000"}`
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(http.MethodPost, "/customers", body), rec)
	if err := HandleCustomerCreate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e = newTestRequestEvent(app, httptest.NewRequest(http.MethodGet, "/customers", nil), rec)
	if err := HandleCustomerList(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp struct {
		Customers []struct {
			Name         string `json:"name"`
			AddressLine1 string `json:"addressLine1"`
		} `json:"customers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Customers) != 1 || resp.Customers[0].Name != "Meghna Builders Ltd" {
		t.Fatalf("customers = %+v", resp.Customers)
	}
	if resp.Customers[0].AddressLine1 != "House 12, Road 5" {
		t.Errorf("addressLine1 = %q", resp.Customers[0].AddressLine1)
	}
}

func TestHandleCustomerCreateRequiresName(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(http.MethodPost, "/customers", `{"phone": "123"}`), rec)
	if err := HandleCustomerCreate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "name") {
		t.Errorf("body = %q, want a name complaint", rec.Body.String())
	}
}

func TestHandleCustomerUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Old Name")

	body := `{"name": "New Name", "email": "new@example.com"}`
	rec := httptest.NewRecorder()
	req := newJSONRequest(http.MethodPost, "/customers/"+customer.Id, body)
	req.SetPathValue("id", customer.Id)
	e := newTestRequestEvent(app, req, rec)
	if err := HandleCustomerUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	updated, _ := app.FindRecordById("customers", customer.Id)
	if got := updated.GetString("name"); got != "New Name" {
		t.Errorf("name = %q", got)
	}
	if got := updated.GetString("email"); got != "new@example.com" {
		t.Errorf("email = %q", got)
	}
}

func TestHandleCustomerDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/customers/"+customer.Id, nil)
	req.SetPathValue("id", customer.Id)
	e := newTestRequestEvent(app, req, rec)
	if err := HandleCustomerDelete(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("customers", customer.Id); err == nil {
		t.Error("customer still exists")
	}
}
