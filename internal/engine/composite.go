package engine

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/models"
)

// ErrNoEnsemble is returned when no model is eligible for the partition.
// Callers must surface "no ensemble available" rather than a uniform guess.
var ErrNoEnsemble = errors.New("no ensemble available")

// ModelVote is one model's prediction offered to the composite
type ModelVote struct {
	Prediction string
	Confidence float64
}

// CompositePrediction is the blended ensemble output: the highest-weighted
// model's prediction carrying a weight-averaged confidence.
type CompositePrediction struct {
	ModelID    uuid.UUID `json:"model_id"`
	Prediction string    `json:"prediction"`
	Confidence float64   `json:"confidence"`
}

// Compose blends model votes using the weight set. The prediction comes from
// the highest-weighted voting model; confidence is the weighted average over
// the models that actually voted, renormalized to the voting subset.
func Compose(set *models.WeightSet, votes map[uuid.UUID]ModelVote) (*CompositePrediction, error) {
	if set == nil || set.IsEmpty() {
		return nil, ErrNoEnsemble
	}

	voterIDs := make([]uuid.UUID, 0, len(votes))
	for id := range votes {
		if set.Weight(id) > 0 {
			voterIDs = append(voterIDs, id)
		}
	}
	if len(voterIDs) == 0 {
		return nil, ErrNoEnsemble
	}

	// Stable order so weight ties resolve deterministically.
	sort.Slice(voterIDs, func(i, j int) bool {
		return voterIDs[i].String() < voterIDs[j].String()
	})

	var leadID uuid.UUID
	leadWeight := -1.0
	weightTotal := 0.0
	confidenceSum := 0.0
	for _, id := range voterIDs {
		w := set.Weight(id)
		weightTotal += w
		confidenceSum += w * votes[id].Confidence
		if w > leadWeight {
			leadWeight = w
			leadID = id
		}
	}

	return &CompositePrediction{
		ModelID:    leadID,
		Prediction: votes[leadID].Prediction,
		Confidence: confidenceSum / weightTotal,
	}, nil
}
