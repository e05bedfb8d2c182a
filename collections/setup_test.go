package collections_test

import (
	"testing"

	"billbook/collections"
	"billbook/services"
	"billbook/testhelpers"
)

func TestSetupIsIdempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// NewTestApp already ran Setup once; a second run must be a no-op.
	collections.Setup(app)

	for _, name := range []string{
		"customers", "jobs", "job_items", "measurements",
		"expenses", "topsheets", "settings",
	} {
		if _, err := app.FindCollectionByNameOrId(name); err != nil {
			t.Errorf("collection %q missing after repeated setup: %v", name, err)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	customers, err := app.FindRecordsByFilter("customers", "id != ''", "", 0, 0, nil)
	if err != nil || len(customers) == 0 {
		t.Fatalf("seed created no customers: %v", err)
	}
	firstCount := len(customers)

	jobs, err := app.FindRecordsByFilter("jobs", "id != ''", "", 0, 0, nil)
	if err != nil || len(jobs) == 0 {
		t.Fatalf("seed created no jobs: %v", err)
	}
	// Seeded aggregates must agree with a recomputation from the items.
	for _, jr := range jobs {
		data, err := services.LoadJobData(app, jr.Id)
		if err != nil {
			t.Fatalf("load seeded job: %v", err)
		}
		totals := services.CalcJobTotals(data.Items, data.DiscountPercent)
		if got := jr.GetFloat("total_amount"); got != totals.TotalAmount {
			t.Errorf("job %s stored total %v != recomputed %v", jr.GetString("ref_number"), got, totals.TotalAmount)
		}
	}

	if err := collections.Seed(app); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	customers, _ = app.FindRecordsByFilter("customers", "id != ''", "", 0, 0, nil)
	if len(customers) != firstCount {
		t.Errorf("second seed duplicated data: %d -> %d customers", firstCount, len(customers))
	}
}

func TestEnsureDefaultSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for range 2 {
		if err := collections.EnsureDefaultSettings(app); err != nil {
			t.Fatalf("ensure default settings: %v", err)
		}
	}

	rows, err := app.FindRecordsByFilter("settings", "key = {:k}", "", 0, 0,
		map[string]any{"k": services.RenderConfigKey})
	if err != nil {
		t.Fatalf("find settings: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("settings rows = %d, want exactly 1", len(rows))
	}

	cfg, err := services.ResolveRenderConfig(app, nil)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg != services.DefaultRenderConfig() {
		t.Errorf("stored settings diverge from defaults: %+v", cfg)
	}
}
