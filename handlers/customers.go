package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type customerRequest struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// HandleCustomerCreate creates a customer.
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req customerRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Name == "" {
			return e.String(http.StatusBadRequest, "Missing customer name")
		}

		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			log.Printf("customer_create: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to create customer")
		}

		record := core.NewRecord(col)
		applyCustomerFields(record, &req)
		if err := app.Save(record); err != nil {
			log.Printf("customer_create: %v", err)
			return e.String(http.StatusBadRequest, "Failed to create customer")
		}
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}

// HandleCustomerUpdate edits a customer.
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Customer not found")
		}

		var req customerRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		applyCustomerFields(record, &req)
		if err := app.Save(record); err != nil {
			log.Printf("customer_update: %v", err)
			return e.String(http.StatusBadRequest, "Failed to update customer")
		}
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}

// HandleCustomerList lists customers alphabetically.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("customers", "id != ''", "name", 0, 0, nil)
		if err != nil {
			log.Printf("customer_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list customers")
		}

		out := make([]map[string]any, 0, len(records))
		for _, r := range records {
			out = append(out, map[string]any{
				"id":           r.Id,
				"name":         r.GetString("name"),
				"addressLine1": r.GetString("address_line_1"),
				"addressLine2": r.GetString("address_line_2"),
				"phone":        r.GetString("phone"),
				"email":        r.GetString("email"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"customers": out})
	}
}

// HandleCustomerDelete deletes a customer. Jobs keep their snapshot of
// the customer name through the relation being cleared by the DB.
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Customer not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("customer_delete: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to delete customer")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": record.Id})
	}
}

func applyCustomerFields(record *core.Record, req *customerRequest) {
	record.Set("name", req.Name)
	record.Set("address_line_1", req.AddressLine1)
	record.Set("address_line_2", req.AddressLine2)
	record.Set("phone", req.Phone)
	record.Set("email", req.Email)
}
