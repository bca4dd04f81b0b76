package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"assetverse/internal/config"
	"assetverse/internal/db"
	"assetverse/internal/logging"
	"assetverse/internal/repository"
	"assetverse/internal/service"
)

// seed migrates the schema and fills an empty package catalog.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Server.LogLevel)
	log.Info("Starting seed script...")

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Info("Connected to database")

	if err := db.Migrate(gormDB, cfg.Database.Reset); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations completed")

	repos := repository.NewRepositories(gormDB)
	packageService := service.NewPackageService(repos.Packages, nil)

	seeded, err := packageService.EnsureCatalog(context.Background())
	if err != nil {
		log.Fatalf("Failed to seed packages: %v", err)
	}
	if seeded == 0 {
		log.Info("Package catalog already present, nothing to do")
		return
	}
	log.WithField("packages", seeded).Info("Seed completed successfully!")
}
