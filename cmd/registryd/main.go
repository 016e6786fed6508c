package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teacher-registry-backend/config"
	"teacher-registry-backend/internal/api"
	"teacher-registry-backend/internal/db"
	"teacher-registry-backend/internal/directory"
	"teacher-registry-backend/internal/logger"
	"teacher-registry-backend/internal/photo"
	"teacher-registry-backend/internal/registry"
	"teacher-registry-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	log.WithField("path", configPath).Info("configuration loaded")

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	appStore := store.NewGormStore(gormDB)

	photos, err := photo.NewStorage(cfg.Upload.Dir, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize photo storage")
	}

	svc := registry.NewService(appStore, directory.Default(), photos, log)

	sweeper := photo.NewSweeper(photos, appStore, cfg.Sweeper.Grace, log)
	if cfg.Sweeper.Enabled {
		if err := sweeper.Start(cfg.Sweeper.Schedule); err != nil {
			log.WithError(err).Fatal("failed to start photo sweeper")
		}
	}

	router := api.NewRouter(svc, photos, api.Options{
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		CacheTTL:        time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
		MaxUploadBytes:  cfg.Upload.MaxBytes(),
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		log.WithField("port", cfg.Server.Port).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server ListenAndServe")
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Info("shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server Shutdown")
	}
	sweeper.Stop()

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("server gracefully stopped")
}
