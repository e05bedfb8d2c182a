package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/collections"
	"billbook/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.EnsureDefaultSettings(app); err != nil {
			log.Printf("Warning: default settings failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/customers", handlers.HandleCustomerList(app))
		se.Router.POST("/customers", handlers.HandleCustomerCreate(app))
		se.Router.POST("/customers/{id}", handlers.HandleCustomerUpdate(app))
		se.Router.DELETE("/customers/{id}", handlers.HandleCustomerDelete(app))

		// ── Jobs ─────────────────────────────────────────────────
		se.Router.GET("/jobs", handlers.HandleJobList(app))
		se.Router.POST("/jobs", handlers.HandleJobCreate(app))
		se.Router.GET("/jobs/{id}", handlers.HandleJobView(app))
		se.Router.POST("/jobs/{id}", handlers.HandleJobUpdate(app))
		se.Router.DELETE("/jobs/{id}", handlers.HandleJobDelete(app))

		// ── Expenses ─────────────────────────────────────────────
		se.Router.POST("/expenses", handlers.HandleExpenseCreate(app))
		se.Router.POST("/expenses/{id}", handlers.HandleExpenseUpdate(app))
		se.Router.DELETE("/expenses/{id}", handlers.HandleExpenseDelete(app))

		// ── Topsheets ────────────────────────────────────────────
		se.Router.GET("/topsheets", handlers.HandleTopsheetList(app))
		se.Router.POST("/topsheets", handlers.HandleTopsheetCreate(app))
		se.Router.GET("/topsheets/{id}", handlers.HandleTopsheetView(app))
		se.Router.POST("/topsheets/{id}", handlers.HandleTopsheetUpdate(app))
		se.Router.DELETE("/topsheets/{id}", handlers.HandleTopsheetDelete(app))

		// ── Settings ─────────────────────────────────────────────
		se.Router.GET("/settings/render", handlers.HandleSettingsGet(app))
		se.Router.PUT("/settings/render", handlers.HandleSettingsPut(app))

		// ── Dashboard ────────────────────────────────────────────
		se.Router.GET("/dashboard", handlers.HandleDashboard(app))

		// ── Documents ────────────────────────────────────────────
		// Bulk route first so "documents" never matches as a job ID.
		se.Router.POST("/jobs/documents/{type}/{ext}", handlers.HandleJobBulkDocument(app))
		se.Router.GET("/jobs/{id}/document/{file}", handlers.HandleJobDocument(app))
		se.Router.GET("/topsheets/{id}/document/{file}", handlers.HandleTopsheetDocument(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
