// Package main provides the entry point for the ranking engine daemon. It
// schedules the recompute, serves health and metrics endpoints, and shuts
// down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/rank-engine/internal/config"
	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/datasource"
	"github.com/yourusername/rank-engine/internal/health"
	"github.com/yourusername/rank-engine/internal/logger"
	"github.com/yourusername/rank-engine/internal/metrics"
	"github.com/yourusername/rank-engine/internal/repository"
	"github.com/yourusername/rank-engine/internal/scheduler"
	"github.com/yourusername/rank-engine/internal/service"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnStart := flag.Bool("run-on-start", false, "Execute one recompute immediately at startup")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger := logger.NewLogger(cfg.App.LogLevel)
	appLogger.WithField("environment", cfg.App.Environment).Info("Ranking engine starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create repositories")
	}

	source, err := datasource.NewOutcomeSource(cfg, repos, log.New(appLogger.Writer(), "", 0))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create outcome source")
	}
	appLogger.WithField("source", source.Name()).Info("Outcome source ready")

	validator := service.NewOutcomeValidator(logger.NewRunLogger(appLogger))
	rankingSvc := service.NewRankingService(cfg, source, repos.Model, repos.Publication, validator, appLogger)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Port:        cfg.Health.Port,
		Logger:      appLogger,
		DB:          db,
	})
	healthServer.Start()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLogger.WithField("port", cfg.Metrics.Port).Info("Metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.WithError(err).Error("Metrics server stopped unexpectedly")
			}
		}()
	}

	sched := scheduler.NewScheduler(rankingSvc, cfg.RunTimeout(), appLogger)
	if err := sched.ScheduleRecompute(cfg.Schedule.RecomputeCron); err != nil {
		appLogger.WithError(err).Fatal("Failed to schedule recompute")
	}
	if err := sched.Start(); err != nil {
		appLogger.WithError(err).Fatal("Failed to start scheduler")
	}
	healthServer.SetReady(true)
	appLogger.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Scheduler running")

	if *runOnStart {
		go func() {
			if _, err := rankingSvc.RunOnce(ctx); err != nil {
				appLogger.WithError(err).Error("Startup recompute failed")
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	appLogger.WithField("signal", sig.String()).Info("Shutting down")

	healthServer.SetReady(false)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := sched.Stop(); err != nil {
		appLogger.WithError(err).Error("Scheduler shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.WithError(err).Error("Metrics server shutdown failed")
		}
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Health server shutdown failed")
	}

	appLogger.Info("Ranking engine stopped")
}
