// Package config provides configuration management for the ranking engine.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/rank-engine/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("window", validateWindow)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateWindow validates a lookback window value
func validateWindow(fl validator.FieldLevel) bool {
	return models.Window(fl.Field().String()).IsValid()
}

// validateCrossField applies validations spanning multiple fields
func validateCrossField(cfg *Config) error {
	windows := make(map[string]bool, len(cfg.Ranking.Windows))
	for _, w := range cfg.Ranking.Windows {
		windows[w] = true
	}

	// Recommendations and weights are computed from the aggregated snapshot
	// set, so both windows must be aggregated.
	if !windows[cfg.Ranking.RecommendationWindow] {
		return fmt.Errorf("recommendation_window %q is not in ranking.windows", cfg.Ranking.RecommendationWindow)
	}
	if !windows[cfg.Ranking.EnsembleWindow] {
		return fmt.Errorf("ensemble_window %q is not in ranking.windows", cfg.Ranking.EnsembleWindow)
	}

	if cfg.Outcomes.Source == "http" && cfg.Outcomes.FeedURL == "" {
		return fmt.Errorf("outcomes.feed_url is required when outcomes.source is http")
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return fmt.Errorf("config validation failed on field %s (rule %s, value %v), %d error(s) total",
		first.Namespace(), first.Tag(), first.Value(), len(errs))
}
