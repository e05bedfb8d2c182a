package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/services"
)

// HandleSettingsGet returns the effective render configuration: defaults
// overlaid with the stored settings row.
func HandleSettingsGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cfg, err := services.ResolveRenderConfig(app, nil)
		if err != nil {
			log.Printf("settings_get: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load settings")
		}
		return e.JSON(http.StatusOK, cfg)
	}
}

// HandleSettingsPut replaces the stored render configuration. The body
// must be a valid RenderConfig JSON document; it is validated by
// unmarshalling before anything is written.
func HandleSettingsPut(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		body, err := io.ReadAll(e.Request.Body)
		if err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		cfg := services.DefaultRenderConfig()
		if err := json.Unmarshal(body, &cfg); err != nil {
			return e.String(http.StatusBadRequest, "Invalid render configuration")
		}
		normalized, err := json.Marshal(cfg)
		if err != nil {
			log.Printf("settings_put: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save settings")
		}

		record, err := app.FindFirstRecordByFilter(
			"settings", "key = {:key}", map[string]any{"key": services.RenderConfigKey},
		)
		if err != nil {
			col, err := app.FindCollectionByNameOrId("settings")
			if err != nil {
				log.Printf("settings_put: %v", err)
				return e.String(http.StatusInternalServerError, "Failed to save settings")
			}
			record = core.NewRecord(col)
			record.Set("key", services.RenderConfigKey)
		}

		record.Set("value", string(normalized))
		if err := app.Save(record); err != nil {
			log.Printf("settings_put: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save settings")
		}
		return e.JSON(http.StatusOK, cfg)
	}
}
