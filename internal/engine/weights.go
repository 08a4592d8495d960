package engine

import (
	"math"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/models"
)

// CalculateWeights converts the ORIGINAL-stance snapshots of the ensemble
// window into normalized blending weights. Every model compared here uses the
// same fixed window; weights from different windows must never be mixed.
//
// A model is eligible when its sample meets MinSample and its accuracy beats
// chance. Raw score is accuracy above chance floored at epsilon, so a model
// sitting barely above 50% still gets a sliver of weight rather than dividing
// by zero. Ineligible models get weight 0. The resulting weights sum to 1, or
// the set is empty when no model qualifies and the caller must take the
// explicit fallback branch.
func CalculateWeights(rc RunContext, snapshots []*models.PerformanceSnapshot) *models.WeightSet {
	set := &models.WeightSet{
		RunID:      rc.RunID,
		Sport:      rc.Sport,
		BetType:    rc.BetType,
		Window:     rc.EnsembleWindow,
		Weights:    make(map[uuid.UUID]float64),
		ComputedAt: rc.Now,
	}

	raw := make(map[uuid.UUID]float64)
	total := 0.0
	for _, s := range snapshots {
		if s.Window != rc.EnsembleWindow || s.Stance != models.StanceOriginal {
			continue
		}
		if s.Total < rc.MinSample || s.Accuracy <= 0.5 {
			continue
		}
		score := math.Max(s.Accuracy-0.5, rc.WeightEpsilon)
		raw[s.ModelID] = score
		total += score
	}

	if total == 0 {
		return set
	}

	for modelID, score := range raw {
		set.Weights[modelID] = score / total
	}
	return set
}
