package models

import (
	"time"

	"github.com/google/uuid"
)

// WeightSet holds the normalized ensemble weights for one (sport, bet type)
// partition. Weights are recomputed every run from the latest accuracy
// snapshot; the previous set is discarded, not blended.
type WeightSet struct {
	RunID      uuid.UUID             `db:"run_id" json:"run_id"`
	Sport      Sport                 `db:"sport" json:"sport" validate:"required"`
	BetType    BetType               `db:"bet_type" json:"bet_type" validate:"required"`
	Window     Window                `db:"window" json:"window" validate:"required"`
	Weights    map[uuid.UUID]float64 `json:"weights"`
	ComputedAt time.Time             `db:"computed_at" json:"computed_at"`
}

// IsEmpty reports whether no model was eligible for the partition
func (ws *WeightSet) IsEmpty() bool {
	return len(ws.Weights) == 0
}

// Sum returns the total of all weights. It is 1 for a non-empty set.
func (ws *WeightSet) Sum() float64 {
	total := 0.0
	for _, w := range ws.Weights {
		total += w
	}
	return total
}

// Weight returns the weight for a model, 0 when the model is ineligible
func (ws *WeightSet) Weight(modelID uuid.UUID) float64 {
	return ws.Weights[modelID]
}
