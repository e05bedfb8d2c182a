package collections

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type measurementDef struct {
	widthFeet    float64
	widthInches  float64
	heightFeet   float64
	heightInches float64
	quantity     float64
	description  string
}

type itemDef struct {
	description     string
	extraDetails    string
	quantity        float64
	unit            string
	unitPrice       float64
	buyPrice        float64
	discountPercent float64
	autoCalcSqft    bool
	measurements    []measurementDef
}

type expenseDef struct {
	description string
	category    string
	amount      float64
	isActive    bool
}

// Seed inserts a demo customer with one fully-populated job so a fresh
// install renders real documents immediately. Safe to call on every
// startup: it returns early when any customer records already exist.
func Seed(app *pocketbase.PocketBase) error {
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	existing, err := app.FindAllRecords(customersCol)
	if err != nil {
		return fmt.Errorf("seed: could not query customers: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: customers collection is empty – inserting demo data …")

	jobsCol, err := app.FindCollectionByNameOrId("jobs")
	if err != nil {
		return fmt.Errorf("seed: could not find jobs collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("job_items")
	if err != nil {
		return fmt.Errorf("seed: could not find job_items collection: %w", err)
	}
	measurementsCol, err := app.FindCollectionByNameOrId("measurements")
	if err != nil {
		return fmt.Errorf("seed: could not find measurements collection: %w", err)
	}
	expensesCol, err := app.FindCollectionByNameOrId("expenses")
	if err != nil {
		return fmt.Errorf("seed: could not find expenses collection: %w", err)
	}

	customer := core.NewRecord(customersCol)
	customer.Set("name", "Meghna Builders Ltd")
	customer.Set("address_line_1", "House 12, Road 7, Banani")
	customer.Set("address_line_2", "Dhaka 1213")
	customer.Set("phone", "+880 1711-000000")
	customer.Set("email", "info@meghnabuilders.example")
	if err := app.Save(customer); err != nil {
		return fmt.Errorf("seed: save customer: %w", err)
	}

	now := time.Now()
	itemDefs := []itemDef{
		{
			description:  "Acrylic letter signboard with SS frame",
			extraDetails: "3mm acrylic, LED backlit",
			quantity:     2, unit: "pcs", unitPrice: 18500, buyPrice: 11000,
			autoCalcSqft: true,
			measurements: []measurementDef{
				{widthFeet: 8, heightFeet: 3, quantity: 1, description: "Front facade"},
				{widthFeet: 4, widthInches: 6, heightFeet: 2, quantity: 1, description: "Side entry"},
			},
		},
		{
			description: "PVC banner print with eyelets",
			quantity:    120, unit: "sft", unitPrice: 45, buyPrice: 28,
		},
		{
			description: "Installation and transport",
			quantity:    1, unit: "lot", unitPrice: 6000,
		},
	}

	job := core.NewRecord(jobsCol)
	job.Set("ref_number", services.GenerateRefNumber(now))
	job.Set("subject", "Branding works at Meghna Builders head office")
	job.Set("detail", "Signboard and banner package")
	job.Set("location", "Banani, Dhaka")
	job.Set("customer", customer.Id)
	job.Set("date", now)
	job.Set("status", "quotation")
	job.Set("quotation_date", now)
	job.Set("terms", "50% advance with work order, balance on delivery.")

	items := make([]services.ItemData, 0, len(itemDefs))
	for _, d := range itemDefs {
		items = append(items, services.ItemData{
			Quantity:        d.quantity,
			UnitPrice:       d.unitPrice,
			DiscountPercent: d.discountPercent,
		})
	}
	totals := services.CalcJobTotals(items, 0)
	job.Set("subtotal", totals.Subtotal)
	job.Set("total_vat", totals.TotalVAT)
	job.Set("discount_amount", totals.DiscountAmount)
	job.Set("total_amount", totals.TotalAmount)
	job.Set("amount_in_words", totals.AmountInWords)
	if err := app.Save(job); err != nil {
		return fmt.Errorf("seed: save job: %w", err)
	}

	for i, d := range itemDefs {
		calc := services.CalcLineItem(d.quantity, d.unitPrice, d.discountPercent, 0)

		r := core.NewRecord(itemsCol)
		r.Set("job", job.Id)
		r.Set("serial", i+1)
		r.Set("sort_order", i+1)
		r.Set("description", d.description)
		r.Set("extra_details", d.extraDetails)
		r.Set("quantity", d.quantity)
		r.Set("unit", d.unit)
		r.Set("unit_price", d.unitPrice)
		r.Set("buy_price", d.buyPrice)
		r.Set("discount_percent", d.discountPercent)
		r.Set("auto_calc_sqft", d.autoCalcSqft)
		r.Set("subtotal", calc.Subtotal)
		r.Set("discount_amount", calc.DiscountAmount)
		r.Set("vat_amount", calc.VATAmount)
		r.Set("total", calc.Total)

		if d.autoCalcSqft {
			var ms []services.Measurement
			for _, m := range d.measurements {
				ms = append(ms, services.Measurement{
					WidthFeet:    m.widthFeet,
					WidthInches:  m.widthInches,
					HeightFeet:   m.heightFeet,
					HeightInches: m.heightInches,
					Quantity:     m.quantity,
				})
			}
			r.Set("calculated_sqft", services.SumMeasurementSqft(ms))
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save job item %q: %w", d.description, err)
		}

		for j, m := range d.measurements {
			mr := core.NewRecord(measurementsCol)
			mr.Set("item", r.Id)
			mr.Set("width_feet", m.widthFeet)
			mr.Set("width_inches", m.widthInches)
			mr.Set("height_feet", m.heightFeet)
			mr.Set("height_inches", m.heightInches)
			mr.Set("quantity", m.quantity)
			mr.Set("calculated_sqft", services.CalcSqft(m.widthFeet, m.widthInches, m.heightFeet, m.heightInches, m.quantity))
			mr.Set("description", m.description)
			mr.Set("sort_order", j+1)
			if err := app.Save(mr); err != nil {
				return fmt.Errorf("seed: save measurement: %w", err)
			}
		}
	}

	for _, d := range []expenseDef{
		{description: "Acrylic sheets and LED modules", category: "Material", amount: 14500, isActive: true},
		{description: "Fabrication labor", category: "Labor", amount: 5200, isActive: true},
	} {
		r := core.NewRecord(expensesCol)
		r.Set("job", job.Id)
		r.Set("description", d.description)
		r.Set("category", d.category)
		r.Set("amount", d.amount)
		r.Set("date", now)
		r.Set("is_active", d.isActive)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save expense %q: %w", d.description, err)
		}
	}

	log.Println("seed: demo data inserted (1 customer, 1 job)")
	return nil
}

// EnsureDefaultSettings creates the render_config settings row when it is
// missing. Unlike Seed this runs on every startup regardless of existing
// data, so the row survives database resets of other collections.
func EnsureDefaultSettings(app *pocketbase.PocketBase) error {
	settingsCol, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return fmt.Errorf("settings: could not find settings collection: %w", err)
	}

	existing, _ := app.FindRecordsByFilter(
		settingsCol,
		"key = {:key}",
		"",
		1, 0,
		map[string]any{"key": services.RenderConfigKey},
	)
	if len(existing) > 0 {
		return nil
	}

	value, err := json.Marshal(services.DefaultRenderConfig())
	if err != nil {
		return fmt.Errorf("settings: marshal defaults: %w", err)
	}

	record := core.NewRecord(settingsCol)
	record.Set("key", services.RenderConfigKey)
	record.Set("value", string(value))
	if err := app.Save(record); err != nil {
		return fmt.Errorf("settings: save default render config: %w", err)
	}
	return nil
}
