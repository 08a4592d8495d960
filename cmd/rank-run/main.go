// Package main provides a one-shot recompute for operators and CI: load
// config, run every partition once, print the summary, exit non-zero on an
// aborted run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/yourusername/rank-engine/internal/config"
	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/datasource"
	"github.com/yourusername/rank-engine/internal/logger"
	"github.com/yourusername/rank-engine/internal/metrics"
	"github.com/yourusername/rank-engine/internal/repository"
	"github.com/yourusername/rank-engine/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	jsonOut := flag.Bool("json", false, "Print the run summary as JSON")
	sports := flag.String("sports", "", "Comma-separated sports to recompute (overrides config)")
	recWindow := flag.String("recommendation-window", "", "Window for verdict classification (overrides config)")
	ensWindow := flag.String("ensemble-window", "", "Window for ensemble weighting (overrides config)")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *sports != "" {
		cfg.Ranking.Sports = strings.Split(*sports, ",")
	}
	if *recWindow != "" {
		cfg.Ranking.RecommendationWindow = *recWindow
	}
	if *ensWindow != "" {
		cfg.Ranking.EnsembleWindow = *ensWindow
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
	ctx := context.Background()

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

	metrics.InitRegistry()
	validator := service.NewOutcomeValidator(logger.NewRunLogger(appLogger))
	rankingSvc := service.NewRankingService(cfg, source, repos.Model, repos.Publication, validator, appLogger)

	summary, err := rankingSvc.RunOnce(ctx)
	if err != nil {
		appLogger.WithError(err).Error("Ranking run aborted")
		os.Exit(1)
	}

	if *jsonOut {
		out, _ := json.MarshalIndent(summary, "", "  ")
		os.Stdout.Write(append(out, '\n'))
		return
	}

	appLogger.WithFields(map[string]interface{}{
		"run_id":              summary.RunID.String(),
		"partitions_computed": summary.PartitionsComputed,
		"partitions_failed":   summary.PartitionsFailed,
		"records_skipped":     summary.RecordsSkipped,
		"duration":            summary.Duration.String(),
	}).Info("Ranking run finished")
}
