package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OutcomeRecord attaches a verified result to exactly one PredictionRecord.
// Verification is terminal; no corrections are modeled.
type OutcomeRecord struct {
	ID           uuid.UUID       `db:"id" json:"id" validate:"required"`
	PredictionID uuid.UUID       `db:"prediction_id" json:"prediction_id" validate:"required"`
	Correct      bool            `db:"correct" json:"correct"`
	Payout       decimal.Decimal `db:"payout" json:"payout"`
	ROI          float64         `db:"roi" json:"roi" validate:"gte=-1"`
	VerifiedAt   time.Time       `db:"verified_at" json:"verified_at" validate:"required"`
}

// VerifiedOutcome joins an OutcomeRecord with its parent PredictionRecord.
// This is the unit of input to all statistics in the engine.
type VerifiedOutcome struct {
	Prediction PredictionRecord `json:"prediction"`
	Outcome    OutcomeRecord    `json:"outcome"`
}

// InverseCorrect returns the correctness flag for the fade-the-model stance
func (v *VerifiedOutcome) InverseCorrect() bool {
	return !v.Outcome.Correct
}

// InverseROI returns the unit-stake return of betting against the stated
// prediction at the complementary market price. A winning original bet at
// decimal odds d implies the fade loses its stake; a losing original bet
// implies the fade wins at odds d/(d-1).
func (v *VerifiedOutcome) InverseROI() float64 {
	if v.Outcome.Correct {
		return -1.0
	}
	d := v.Prediction.OddsFloat()
	if d <= 1.0 {
		return 0
	}
	return 1.0 / (d - 1.0)
}

// StanceCorrect returns the correctness flag evaluated under the given stance
func (v *VerifiedOutcome) StanceCorrect(stance Stance) bool {
	if stance == StanceInverse {
		return v.InverseCorrect()
	}
	return v.Outcome.Correct
}

// StanceROI returns the unit-stake return evaluated under the given stance
func (v *VerifiedOutcome) StanceROI(stance Stance) float64 {
	if stance == StanceInverse {
		return v.InverseROI()
	}
	return v.Outcome.ROI
}
