package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/cmd"
	"staffpricing/collections"
	"staffpricing/config"
	"staffpricing/handlers"
	"staffpricing/services"
)

func main() {
	cfgPath := os.Getenv("STAFFPRICING_CONFIG")
	if cfgPath == "" {
		cfgPath = "staffpricing.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	cal := services.NewCalendar(cfg.Calendar.HoursPerDay)
	app := pocketbase.New()

	// Create collections, seed data and backfill on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.EnableMicrosoftLogin(app, cfg.Auth.Microsoft); err != nil {
			log.Printf("Warning: microsoft login not enabled: %v", err)
		}
		if cfg.Seed.Enabled {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.MigrateAllocationCostRates(app); err != nil {
			log.Printf("Warning: allocation cost migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))
		handlers.RegisterRoutes(se, handlers.Deps{App: app, Calendar: cal, Config: cfg})
		return se.Next()
	})

	cmd.Register(app, cal)

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
