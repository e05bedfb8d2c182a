// Package collections programmatically creates the PocketBase schema and
// seeds the default data on startup.
package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup ensures the customers, topsheets, jobs, job_items, measurements,
// expenses and settings collections exist.
func Setup(app *pocketbase.PocketBase) {
	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "address_line_1"})
		c.Fields.Add(&core.TextField{Name: "address_line_2"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	topsheets := ensureCollection(app, "topsheets", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "topsheet_number", Required: true})
		c.Fields.Add(&core.DateField{Name: "date"})
		c.Fields.Add(&core.TextField{Name: "customer_name"})
		c.Fields.Add(&core.TextField{Name: "customer_address"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"draft", "submitted", "approved", "completed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_topsheets_number", true, "topsheet_number", "")
	})

	jobs := ensureCollection(app, "jobs", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "ref_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "subject"})
		c.Fields.Add(&core.TextField{Name: "detail"})
		c.Fields.Add(&core.TextField{Name: "location"})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.DateField{Name: "date"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"quotation", "challan", "bill"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "quotation_date"})
		c.Fields.Add(&core.DateField{Name: "challan_date"})
		c.Fields.Add(&core.DateField{Name: "bill_date"})
		c.Fields.Add(&core.TextField{Name: "bill_number"})
		c.Fields.Add(&core.TextField{Name: "bbl_bill_number"})
		c.Fields.Add(&core.TextField{Name: "challan_number"})
		c.Fields.Add(&core.NumberField{Name: "discount_percent"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "terms"})
		c.Fields.Add(&core.NumberField{Name: "subtotal"})
		c.Fields.Add(&core.NumberField{Name: "total_vat"})
		c.Fields.Add(&core.NumberField{Name: "discount_amount"})
		c.Fields.Add(&core.NumberField{Name: "total_amount"})
		c.Fields.Add(&core.TextField{Name: "amount_in_words"})
		// Deleting a topsheet must never delete its jobs; the link is
		// cleared instead.
		c.Fields.Add(&core.RelationField{
			Name:         "topsheet",
			CollectionId: topsheets.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_jobs_ref_number", true, "ref_number", "")
	})

	jobItems := ensureCollection(app, "job_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "job",
			Required:      true,
			CollectionId:  jobs.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "serial"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "extra_details"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.NumberField{Name: "buy_price"})
		c.Fields.Add(&core.NumberField{Name: "discount_percent"})
		c.Fields.Add(&core.NumberField{Name: "vat_rate"})
		c.Fields.Add(&core.BoolField{Name: "auto_calc_sqft"})
		c.Fields.Add(&core.NumberField{Name: "calculated_sqft"})
		c.Fields.Add(&core.NumberField{Name: "subtotal"})
		c.Fields.Add(&core.NumberField{Name: "discount_amount"})
		c.Fields.Add(&core.NumberField{Name: "vat_amount"})
		c.Fields.Add(&core.NumberField{Name: "total"})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
	})

	ensureCollection(app, "measurements", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "item",
			Required:      true,
			CollectionId:  jobItems.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "width_feet"})
		c.Fields.Add(&core.NumberField{Name: "width_inches"})
		c.Fields.Add(&core.NumberField{Name: "height_feet"})
		c.Fields.Add(&core.NumberField{Name: "height_inches"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "calculated_sqft"})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
	})

	ensureCollection(app, "expenses", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "job",
			Required:      true,
			CollectionId:  jobs.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Values:    []string{"Material", "Labor", "Transport", "Other"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount"})
		c.Fields.Add(&core.DateField{Name: "date"})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.TextField{Name: "value"})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_settings_key", true, "key", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
