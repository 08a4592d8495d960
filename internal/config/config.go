// Package config provides configuration management for the ranking engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Outcomes OutcomesConfig `mapstructure:"outcomes" validate:"required"`
	Ranking  RankingConfig  `mapstructure:"ranking" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Health   HealthConfig   `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// OutcomesConfig selects and configures the outcome store the engine reads
type OutcomesConfig struct {
	// Source is either "postgres" (read settled outcomes from our own
	// database) or "http" (pull them from the verification feed).
	Source         string  `mapstructure:"source" validate:"required,oneof=postgres http"`
	FeedURL        string  `mapstructure:"feed_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// RankingConfig represents thresholds and windows for the statistics core
type RankingConfig struct {
	MinSample             int      `mapstructure:"min_sample" validate:"required,gt=0"`
	DiffThreshold         float64  `mapstructure:"diff_threshold" validate:"required,gt=0,lt=1"`
	WeightEpsilon         float64  `mapstructure:"weight_epsilon" validate:"required,gt=0"`
	Windows               []string `mapstructure:"windows" validate:"required,min=1,dive,window"`
	RecommendationWindow  string   `mapstructure:"recommendation_window" validate:"required,window"`
	EnsembleWindow        string   `mapstructure:"ensemble_window" validate:"required,window"`
	Sports                []string `mapstructure:"sports" validate:"required,min=1"`
	MaxParallelPartitions int      `mapstructure:"max_parallel_partitions" validate:"required,gt=0"`
	RunTimeoutMinutes     int      `mapstructure:"run_timeout_minutes" validate:"required,gt=0"`
}

// ScheduleConfig represents batch scheduling
type ScheduleConfig struct {
	RecomputeCron string `mapstructure:"recompute_cron" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RunTimeout returns the per-run timeout as a duration
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.Ranking.RunTimeoutMinutes) * time.Minute
}

// OutcomeFeedTimeout returns the outcome feed request timeout as a duration
func (c *Config) OutcomeFeedTimeout() time.Duration {
	return time.Duration(c.Outcomes.TimeoutSeconds) * time.Second
}
