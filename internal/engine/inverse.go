package engine

import (
	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/models"
)

// StancePair holds the ORIGINAL and INVERSE snapshots for one model on one
// (sport, bet type, window). It is a pure pairing of two already-computed
// snapshots and never re-reads the outcome store.
type StancePair struct {
	Original *models.PerformanceSnapshot
	Inverse  *models.PerformanceSnapshot
}

// AccuracyDiff returns inverse accuracy minus original accuracy. Positive
// values mean fading the model outperformed following it.
func (p StancePair) AccuracyDiff() float64 {
	return p.Inverse.Accuracy - p.Original.Accuracy
}

// PairStances matches ORIGINAL and INVERSE snapshots by model for a single
// window. Models missing either stance are dropped; the aggregator always
// emits both, so a missing side means the snapshot set is malformed.
func PairStances(snapshots []*models.PerformanceSnapshot, window models.Window) map[uuid.UUID]StancePair {
	pairs := make(map[uuid.UUID]StancePair)
	for _, s := range snapshots {
		if s.Window != window {
			continue
		}
		pair := pairs[s.ModelID]
		switch s.Stance {
		case models.StanceOriginal:
			pair.Original = s
		case models.StanceInverse:
			pair.Inverse = s
		}
		pairs[s.ModelID] = pair
	}

	for id, pair := range pairs {
		if pair.Original == nil || pair.Inverse == nil {
			delete(pairs, id)
		}
	}
	return pairs
}
