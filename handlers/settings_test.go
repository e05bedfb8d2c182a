package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"billbook/services"
	"billbook/testhelpers"
)

func TestHandleSettingsGetDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, httptest.NewRequest(http.MethodGet, "/settings/render", nil), rec)
	if err := HandleSettingsGet(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var cfg services.RenderConfig
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := services.DefaultRenderConfig()
	if cfg != want {
		t.Errorf("config = %+v, want defaults %+v", cfg, want)
	}
}

func TestHandleSettingsPutPersistsAndMerges(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// Partial body: changed fields stick, the rest stays at defaults.
	body := `{"fontSize": 12, "companyName": "Meghna Signs"}`
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(http.MethodPut, "/settings/render", body), rec)
	if err := HandleSettingsPut(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cfg, err := services.ResolveRenderConfig(app, nil)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.FontSize != 12 {
		t.Errorf("fontSize = %v, want 12", cfg.FontSize)
	}
	if cfg.CompanyName != "Meghna Signs" {
		t.Errorf("companyName = %q", cfg.CompanyName)
	}
	if cfg.FontFamily != "helvetica" {
		t.Errorf("fontFamily = %q, want untouched default", cfg.FontFamily)
	}
}

func TestHandleSettingsPutUpsertsSingleRow(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for _, body := range []string{`{"fontSize": 11}`, `{"fontSize": 13}`} {
		rec := httptest.NewRecorder()
		e := newTestRequestEvent(app, newJSONRequest(http.MethodPut, "/settings/render", body), rec)
		if err := HandleSettingsPut(app)(e); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rows, err := app.FindRecordsByFilter("settings", "key = {:k}", "", 0, 0,
		map[string]any{"k": services.RenderConfigKey})
	if err != nil {
		t.Fatalf("find settings: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("settings rows = %d, want 1", len(rows))
	}

	cfg, _ := services.ResolveRenderConfig(app, nil)
	if cfg.FontSize != 13 {
		t.Errorf("fontSize = %v, want last write 13", cfg.FontSize)
	}
}

func TestHandleSettingsPutRejectsBadJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(http.MethodPut, "/settings/render", `{"fontSize": `), rec)
	if err := HandleSettingsPut(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
