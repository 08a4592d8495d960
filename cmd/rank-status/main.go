// Package main provides the rank-status CLI for inspecting published
// rankings from a terminal: leaderboard, ensemble weights and calibration.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yourusername/rank-engine/internal/config"
	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/logger"
	"github.com/yourusername/rank-engine/internal/models"
	"github.com/yourusername/rank-engine/internal/presenter"
	"github.com/yourusername/rank-engine/internal/repository"
)

var (
	configPath string
	sportFlag  string
	betFlag    string
	windowFlag string
	sortFlag   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rank-status",
		Short: "Inspect published model rankings",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&sportFlag, "sport", "nba", "Sport partition")
	rootCmd.PersistentFlags().StringVar(&betFlag, "bet-type", "moneyline", "Bet type partition")

	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the model leaderboard for a partition",
		RunE:  runLeaderboard,
	}
	leaderboardCmd.Flags().StringVar(&windowFlag, "window", "all", "Lookback window")
	leaderboardCmd.Flags().StringVar(&sortFlag, "sort", "accuracy", "Sort key: accuracy or roi")

	weightsCmd := &cobra.Command{
		Use:   "weights",
		Short: "Show the published ensemble weights for a partition",
		RunE:  runWeights,
	}

	calibrationCmd := &cobra.Command{
		Use:   "calibration <model-id>",
		Short: "Show a model's confidence calibration bands",
		Args:  cobra.ExactArgs(1),
		RunE:  runCalibration,
	}

	rootCmd.AddCommand(leaderboardCmd, weightsCmd, calibrationCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPresenter wires config, database and repositories for a CLI invocation
func buildPresenter(ctx context.Context) (*presenter.Presenter, func(), error) {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		if err := config.LoadSecretsFromAWS(cfg, os.Getenv("AWS_REGION"), os.Getenv("AWS_SECRET_NAME")); err != nil {
			return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	appLogger := logger.NewLogger("error")
	p := presenter.NewPresenter(repos, cfg.Ranking.MinSample, time.Minute, appLogger)
	return p, db.Close, nil
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := buildPresenter(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	rows, err := p.Leaderboard(ctx, models.Sport(sportFlag), models.BetType(betFlag), models.Window(windowFlag), presenter.SortKey(sortFlag))
	if err == models.ErrNoData {
		fmt.Println("no data published for this partition yet")
		return nil
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tKIND\tVERDICT\tACCURACY\tMEAN ROI\tSHARPE\tSAMPLE\tWEIGHT")
	for _, row := range rows {
		sharpe := "-"
		if row.Sharpe != nil {
			sharpe = fmt.Sprintf("%.2f", *row.Sharpe)
		}
		sample := fmt.Sprintf("%d", row.Total)
		if row.InsufficientData {
			sample += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%+.3f\t%s\t%s\t%.3f\n",
			row.ModelName, row.Kind, row.Verdict, row.Accuracy*100, row.MeanROI, sharpe, sample, row.Weight)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println("\n* below minimum sample")
	return nil
}

func runWeights(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := buildPresenter(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	view, err := p.Ensemble(ctx, models.Sport(sportFlag), models.BetType(betFlag))
	if err != nil {
		return err
	}
	if !view.Available {
		fmt.Println(view.Message)
		return nil
	}

	fmt.Printf("ensemble window: %s\n\n", view.Window)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tWEIGHT")
	for _, entry := range view.Entries {
		fmt.Fprintf(w, "%s\t%.3f\n", entry.ModelName, entry.Weight)
	}
	return w.Flush()
}

func runCalibration(cmd *cobra.Command, args []string) error {
	modelID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid model id %q: %w", args[0], err)
	}

	ctx := cmd.Context()
	p, cleanup, err := buildPresenter(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	bands, err := p.CalibrationChart(ctx, modelID, models.Sport(sportFlag), models.BetType(betFlag))
	if err == models.ErrNoData {
		fmt.Println("no calibration data published for this model yet")
		return nil
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BAND\tPICKS\tCORRECT\tACCURACY")
	for _, band := range bands {
		accuracy := "-"
		if band.Accuracy != nil {
			accuracy = fmt.Sprintf("%.1f%%", *band.Accuracy*100)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", band.Label, band.Total, band.Correct, accuracy)
	}
	return w.Flush()
}

func init() {
	log.SetFlags(0)
}
