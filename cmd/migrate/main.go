package main

import (
	"os"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/model"
	"notekeeper-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		color.Red("Invalid configuration: %v", err)
		os.Exit(1)
	}
	if cfg.Database.Connection == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Running AutoMigrate for %d tables...", len(model.AllModels()))
	if err := model.AutoMigrate(db); err != nil {
		color.Red("AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	color.Green("Database migration completed")
}
