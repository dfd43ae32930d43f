package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notekeeper-be/internal/bootstrap"
	"notekeeper-be/internal/config"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/server"
	"notekeeper-be/internal/tracer"
	"notekeeper-be/pkg/database"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer func() { _ = sysLogger.Sync() }()

	// 2. Tracer
	shutdownTracer := tracer.InitTracer(context.Background(), cfg.Telemetry, sysLogger)

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}
	if cfg.Database.AutoMigrate {
		if err := model.AutoMigrate(gormDB); err != nil {
			log.Fatalf("AutoMigrate failed: %v", err)
		}
	}

	// 4. Container and background workers
	container := bootstrap.NewContainer(gormDB, cfg, sysLogger)
	if err := container.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	// 5. Server
	srv := server.New(cfg, container, sysLogger)
	go func() {
		if err := srv.Run(); err != nil {
			sysLogger.Error("Server", "Server stopped", map[string]interface{}{"error": err})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sysLogger.Info("Server", "Shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sysLogger.Warn("Server", "Forced shutdown", map[string]interface{}{"error": err})
	}
	container.Close()
	if err := shutdownTracer(ctx); err != nil {
		sysLogger.Warn("Tracer", "Failed to flush spans", map[string]interface{}{"error": err})
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
