package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
)

// RenderConfigKey is the settings-store key holding the persisted render
// configuration.
const RenderConfigKey = "render_config"

// Date format values accepted by RenderConfig.DateFormat.
const (
	DateFormatUS = "US" // MM/DD/YYYY
	DateFormatBD = "BD" // DD/MM/YYYY
)

// RenderConfig is the full style surface of a render call. It is resolved
// once at the handler boundary and passed by value into every renderer;
// no renderer reads ambient state.
type RenderConfig struct {
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	FontColor  string  `json:"fontColor"`

	TopMargin    float64 `json:"topMargin"`    // mm
	BottomMargin float64 `json:"bottomMargin"` // mm

	CompanyName    string `json:"companyName"`
	CompanyTagline string `json:"companyTagline"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`

	PadEnabled bool    `json:"padEnabled"`
	PadOpacity float64 `json:"padOpacity"`
	PadImage   string  `json:"padImage"`

	SignatureEnabled bool    `json:"signatureEnabled"`
	SignatureImage   string  `json:"signatureImage"`
	SignatureWidth   float64 `json:"signatureWidth"`  // mm
	SignatureHeight  float64 `json:"signatureHeight"` // mm

	DateFormat     string `json:"dateFormat"`
	ShowDatePrefix bool   `json:"showDatePrefix"`
	DatePrefix     string `json:"datePrefix"`
}

// DefaultRenderConfig returns the hardcoded bottom layer of the
// defaults → stored settings → per-call overrides merge.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		FontFamily:      "helvetica",
		FontSize:        10,
		FontColor:       "#212529",
		TopMargin:       15,
		BottomMargin:    15,
		CompanyName:     "Billbook",
		CompanyTagline:  "Billing & Job Tracking",
		CompanyEmail:    "info@billbook.example",
		CompanyPhone:    "+880 1700-000000",
		PadOpacity:      0.08,
		SignatureWidth:  40,
		SignatureHeight: 18,
		DateFormat:      DateFormatBD,
		DatePrefix:      "Date: ",
	}
}

// ResolveRenderConfig performs the three-level merge: hardcoded defaults,
// then the persisted settings row, then the caller's JSON overrides.
// Each layer is a partial JSON document unmarshalled on top of the
// previous one, so absent fields keep the lower layer's value.
// A corrupt stored row is logged and skipped; corrupt overrides are the
// caller's mistake and fail the call.
func ResolveRenderConfig(app *pocketbase.PocketBase, overrides []byte) (RenderConfig, error) {
	cfg := DefaultRenderConfig()

	record, err := app.FindFirstRecordByFilter(
		"settings",
		"key = {:key}",
		map[string]any{"key": RenderConfigKey},
	)
	if err == nil {
		if raw := record.GetString("value"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
				log.Printf("renderconfig: ignoring corrupt stored settings: %v", err)
				cfg = DefaultRenderConfig()
			}
		}
	}

	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid render config overrides: %w", err)
		}
	}

	return cfg, nil
}

// FormatDocDate renders a document date in the configured format,
// optionally prefixed with the configured literal ("Date: "). A zero
// time renders as an empty string.
func FormatDocDate(t time.Time, cfg RenderConfig) string {
	if t.IsZero() {
		return ""
	}
	layout := "02/01/2006"
	if cfg.DateFormat == DateFormatUS {
		layout = "01/02/2006"
	}
	s := t.Format(layout)
	if cfg.ShowDatePrefix {
		s = cfg.DatePrefix + s
	}
	return s
}
