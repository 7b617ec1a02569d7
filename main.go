package main

import (
	"context"
	"log"

	"github.com/RichKitibwa/BloodLink/app"
	"github.com/RichKitibwa/BloodLink/config"
	"github.com/RichKitibwa/BloodLink/db"
	"github.com/RichKitibwa/BloodLink/routes"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	application := app.MustNew(cfg)
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/api/health", func(c *app.Ctx) { c.JSON(200, app.H{"status": "healthy"}) })

	routes.RegisterRoutes(r, application)

	app.BootstrapFirstHospital(context.Background(), cfg, db.NewRepo(application.DB, cfg), application.Log)

	log.Printf("listening on :%s", cfg.Port)
	_ = r.Run(":" + cfg.Port)
}
