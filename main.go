package main

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"designquotes/collections"
	"designquotes/config"
	"designquotes/handlers"
	"designquotes/services"
)

func main() {
	app := pocketbase.New()
	cfg := config.Load()

	defaults := services.RateDefaults{
		TaxRate:    cfg.DefaultTaxRate,
		MarginRate: cfg.DefaultMarginRate,
	}

	worker := services.NewWorker(app.Logger(), cfg.WorkerQueueSize)

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateQuotesWithoutVersions(app); err != nil {
			log.Printf("Warning: quote version migration failed: %v", err)
		}
		worker.Start()
		return se.Next()
	})

	app.OnTerminate().BindFunc(func(te *core.TerminateEvent) error {
		worker.Stop()
		return te.Next()
	})

	// Enhanced image saved: detect items and version the project's quote
	// in the background. A failed detection never fails the image save.
	app.OnRecordAfterCreateSuccess("images").BindFunc(func(e *core.RecordEvent) error {
		imageID := e.Record.Id
		worker.Enqueue(fmt.Sprintf("enhancement %s", imageID), func() error {
			return services.RecordEnhancement(app, imageID, defaults)
		})
		return e.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		g := se.Router.Group("/api")
		g.Bind(apis.RequireAuth())

		// ── Quotes ───────────────────────────────────────────────
		g.POST("/projects/{projectId}/quote", handlers.HandleQuoteCreate(app, cfg))
		g.GET("/quotes", handlers.HandleQuoteList(app))
		g.GET("/quotes/{id}", handlers.HandleQuoteView(app))

		// ── Versions ─────────────────────────────────────────────
		g.GET("/quotes/{id}/versions", handlers.HandleVersionList(app))
		g.POST("/quotes/{id}/versions", handlers.HandleVersionCreate(app))
		g.GET("/quotes/{id}/versions/{versionId}", handlers.HandleVersionView(app))
		g.POST("/quotes/{id}/versions/{versionId}/finalize", handlers.HandleVersionFinalize(app))

		// ── Items ────────────────────────────────────────────────
		g.GET("/quotes/{id}/versions/{versionId}/items", handlers.HandleItemList(app))
		g.POST("/quotes/{id}/versions/{versionId}/items", handlers.HandleItemCreate(app))
		g.PUT("/quotes/{id}/versions/{versionId}/items/{itemId}", handlers.HandleItemUpdate(app))
		g.DELETE("/quotes/{id}/versions/{versionId}/items/{itemId}", handlers.HandleItemDelete(app))

		// ── Exports ──────────────────────────────────────────────
		g.GET("/quotes/{id}/export/pdf", handlers.HandleExportPDF(app, cfg))
		g.GET("/quotes/{id}/export/excel", handlers.HandleExportExcel(app, cfg))

		// ── Spaces ───────────────────────────────────────────────
		g.GET("/projects/{projectId}/spaces", handlers.HandleSpaceList(app))
		g.POST("/projects/{projectId}/spaces", handlers.HandleSpaceCreate(app))
		g.PUT("/projects/{projectId}/spaces/{spaceId}", handlers.HandleSpaceUpdate(app))
		g.DELETE("/projects/{projectId}/spaces/{spaceId}", handlers.HandleSpaceDelete(app))

		// ── Cost library ─────────────────────────────────────────
		g.POST("/cost-library/import", handlers.HandleCostImport(app))

		return se.Next()
	})

	// seed-demo loads the demo cost library without starting the server.
	app.RootCmd.AddCommand(&cobra.Command{
		Use:   "seed-demo",
		Short: "Create collections and load the demo cost library",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Bootstrap(); err != nil {
				return err
			}
			collections.Setup(app)
			if err := collections.Seed(app); err != nil {
				return err
			}
			log.Println("demo cost library seeded")
			return nil
		},
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
