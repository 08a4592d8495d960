// Package config provides configuration management for the ranking engine.
package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath     = "testdata/valid_config.yaml"
	expansionConfigPath = "testdata/expansion_config.yaml"
	nonexistentPath     = "testdata/nonexistent_config.yaml"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != "rank-engine" {
		t.Errorf("expected app name 'rank-engine', got '%s'", cfg.App.Name)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Ranking.MinSample != 10 {
		t.Errorf("expected min_sample 10, got %d", cfg.Ranking.MinSample)
	}
	if cfg.Ranking.DiffThreshold != 0.05 {
		t.Errorf("expected diff_threshold 0.05, got %f", cfg.Ranking.DiffThreshold)
	}
	if len(cfg.Ranking.Sports) != 4 {
		t.Errorf("expected 4 sports, got %d", len(cfg.Ranking.Sports))
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigExpandsEnvironment tests ${VAR} expansion in the YAML file
func TestLoadConfigExpandsEnvironment(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("expected expanded password, got '%s'", cfg.Database.Password)
	}
}

// TestLoadWithDefaults tests defaults when the file is missing
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Ranking.MinSample != 10 {
		t.Errorf("expected default min_sample 10, got %d", cfg.Ranking.MinSample)
	}
	if cfg.Ranking.EnsembleWindow != "30d" {
		t.Errorf("expected default ensemble window 30d, got %s", cfg.Ranking.EnsembleWindow)
	}
	if cfg.Schedule.RecomputeCron == "" {
		t.Error("expected a default recompute schedule")
	}
}

// TestValidateSuccess tests a fully valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

// TestValidateRejectsBadEnvironment tests the custom environment rule
func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg, _ := Load(validConfigPath)
	cfg.App.Environment = "invalid"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for bad environment")
	}
}

// TestValidateRejectsBadWindow tests the custom window rule
func TestValidateRejectsBadWindow(t *testing.T) {
	cfg, _ := Load(validConfigPath)
	cfg.Ranking.EnsembleWindow = "7d"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for unsupported window")
	}
}

// TestValidateCrossFieldWindows tests that derived windows must be aggregated
func TestValidateCrossFieldWindows(t *testing.T) {
	cfg, _ := Load(validConfigPath)
	cfg.Ranking.Windows = []string{"90d", "all"}
	cfg.Ranking.EnsembleWindow = "30d"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected cross-field validation error")
	}
	if !strings.Contains(err.Error(), "ensemble_window") {
		t.Errorf("expected ensemble_window error, got %v", err)
	}
}

// TestValidateHTTPSourceRequiresURL tests the http source cross-field rule
func TestValidateHTTPSourceRequiresURL(t *testing.T) {
	cfg, _ := Load(validConfigPath)
	cfg.Outcomes.Source = "http"
	cfg.Outcomes.FeedURL = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for http source without feed_url")
	}
}

// TestDatabaseDSN tests DSN construction
func TestDatabaseDSN(t *testing.T) {
	cfg, _ := Load(validConfigPath)
	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected postgres:// DSN, got %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected sslmode in DSN, got %s", dsn)
	}
}
