package models

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the classifier output for a model on one (sport, bet type)
type Verdict string

const (
	// VerdictOriginal means the model's predictions should be followed as stated
	VerdictOriginal Verdict = "ORIGINAL"
	// VerdictInverse means betting against the model outperforms following it
	VerdictInverse Verdict = "INVERSE"
	// VerdictAvoid means neither stance clears chance, or the sample is too small
	VerdictAvoid Verdict = "AVOID"
)

// Recommendation is the latest verdict for a model, recomputed every run.
// Trend is reconstructed from snapshots, not from recommendation history.
type Recommendation struct {
	RunID        uuid.UUID `db:"run_id" json:"run_id"`
	ModelID      uuid.UUID `db:"model_id" json:"model_id" validate:"required"`
	Sport        Sport     `db:"sport" json:"sport" validate:"required"`
	BetType      BetType   `db:"bet_type" json:"bet_type" validate:"required"`
	Window       Window    `db:"window" json:"window" validate:"required"`
	Verdict      Verdict   `db:"verdict" json:"verdict" validate:"required,oneof=ORIGINAL INVERSE AVOID"`
	AccuracyDiff float64   `db:"accuracy_diff" json:"accuracy_diff"`
	Reason       string    `db:"reason" json:"reason"`
	ComputedAt   time.Time `db:"computed_at" json:"computed_at"`
}
