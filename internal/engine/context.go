// Package engine implements the batch statistics core: accuracy aggregation,
// inverse-stance evaluation, recommendation classification, confidence
// calibration and adaptive ensemble weighting.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/models"
)

// Default thresholds used when the config does not override them
const (
	DefaultMinSample     = 10
	DefaultDiffThreshold = 0.05
	DefaultWeightEpsilon = 1e-6
)

// RunContext carries everything a single partition computation depends on.
// It replaces any module-level state so each run is reproducible from its
// inputs alone.
type RunContext struct {
	RunID   uuid.UUID
	Sport   models.Sport
	BetType models.BetType
	Now     time.Time

	// Windows to aggregate; RecommendationWindow and EnsembleWindow must be
	// members of this set.
	Windows              []models.Window
	RecommendationWindow models.Window
	EnsembleWindow       models.Window

	MinSample     int
	DiffThreshold float64
	WeightEpsilon float64
}

// NewRunContext builds a run context with defaults filled in
func NewRunContext(sport models.Sport, betType models.BetType, now time.Time) RunContext {
	return RunContext{
		RunID:                uuid.New(),
		Sport:                sport,
		BetType:              betType,
		Now:                  now,
		Windows:              models.AllWindows,
		RecommendationWindow: models.WindowAll,
		EnsembleWindow:       models.Window30d,
		MinSample:            DefaultMinSample,
		DiffThreshold:        DefaultDiffThreshold,
		WeightEpsilon:        DefaultWeightEpsilon,
	}
}
