package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/rank-engine/internal/logger"
	"github.com/yourusername/rank-engine/internal/models"
)

// OutcomeValidator performs boundary validation and integrity checks on
// verified outcomes before they enter aggregation. Records that fail are
// excluded and logged, never silently dropped and never fatal to the run.
type OutcomeValidator struct {
	validate  *validator.Validate
	runLogger *logger.RunLogger
}

// NewOutcomeValidator creates a new outcome validator
func NewOutcomeValidator(runLogger *logger.RunLogger) *OutcomeValidator {
	return &OutcomeValidator{
		validate:  validator.New(),
		runLogger: runLogger,
	}
}

// Check validates one verified outcome. It returns a reason string for
// excluded records and an empty string for clean ones.
func (v *OutcomeValidator) Check(vo *models.VerifiedOutcome) string {
	if vo == nil {
		return "nil record"
	}
	if err := v.validate.Struct(&vo.Prediction); err != nil {
		return fmt.Sprintf("prediction failed validation: %v", err)
	}
	if err := v.validate.Struct(&vo.Outcome); err != nil {
		return fmt.Sprintf("outcome failed validation: %v", err)
	}
	if vo.Outcome.PredictionID != vo.Prediction.ID {
		return "outcome references a different prediction"
	}
	if vo.Outcome.VerifiedAt.Before(vo.Prediction.CreatedAt) {
		return "outcome verified before prediction was created"
	}
	if vo.Prediction.OddsFloat() <= 1.0 {
		return "posted odds at or below 1.0"
	}
	return ""
}

// Filter returns the clean subset of outcomes plus the number excluded. Each
// exclusion is logged with the outcome ID and reason.
func (v *OutcomeValidator) Filter(outcomes []*models.VerifiedOutcome) ([]*models.VerifiedOutcome, int) {
	clean := make([]*models.VerifiedOutcome, 0, len(outcomes))
	skipped := 0

	for _, vo := range outcomes {
		reason := v.Check(vo)
		if reason == "" {
			clean = append(clean, vo)
			continue
		}
		skipped++
		if v.runLogger != nil {
			id := "unknown"
			if vo != nil {
				id = vo.Outcome.ID.String()
			}
			v.runLogger.LogRecordSkipped(id, reason)
		}
	}

	return clean, skipped
}
