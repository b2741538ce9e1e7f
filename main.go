package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mock-interview-api/internal/config"
	"mock-interview-api/internal/gateway"
	"mock-interview-api/internal/interview"
	"mock-interview-api/internal/logger"
	"mock-interview-api/internal/metrics"
	"mock-interview-api/internal/server"
	"mock-interview-api/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	cfg := config.Load()

	if err := cfg.LLM.Validate(); err != nil {
		log.Fatalf("invalid LLM configuration: %v", err)
	}

	zl := logger.New(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer zl.Sync()

	settings, err := config.LoadInterviewSettings(cfg.App.InterviewSettingsPath)
	if err != nil {
		zl.Warn("failed to load interview settings, using defaults",
			zap.String("path", cfg.App.InterviewSettingsPath),
			zap.Error(err))
		settings = config.DefaultInterviewSettings()
	}

	m := metrics.NewMetrics()
	gw := gateway.New(cfg.LLM, m, zl)
	store := interview.NewStore()

	if settings.SessionTTLHours > 0 {
		ttl := time.Duration(settings.SessionTTLHours) * time.Hour
		stop := store.StartJanitor(ttl, 10*time.Minute)
		defer stop()
		zl.Info("session janitor enabled", zap.Duration("ttl", ttl))
	}

	var archive *storage.Archive
	if cfg.App.ReportsDir != "" {
		archive = storage.NewArchive(cfg.App.ReportsDir)
		zl.Info("report archive enabled", zap.String("dir", cfg.App.ReportsDir))
	}

	service := interview.NewService(gw, store, settings, m, archive, zl)
	controller := server.NewInterviewController(service, m, zl)
	app := server.New(cfg, controller)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		zl.Info("starting server",
			zap.String("addr", addr),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", cfg.LLM.Model))
		if err := app.Listen(addr); err != nil {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		zl.Error("shutdown error", zap.Error(err))
	}
	zl.Info("server stopped")
}
