package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sport identifies the sport a prediction belongs to
type Sport string

// BetType represents the market a prediction targets
type BetType string

const (
	BetTypeMoneyline  BetType = "moneyline"
	BetTypeSpread     BetType = "spread"
	BetTypeTotal      BetType = "total"
	BetTypePlayerProp BetType = "player_prop"
)

// AllBetTypes lists every supported bet type
var AllBetTypes = []BetType{BetTypeMoneyline, BetTypeSpread, BetTypeTotal, BetTypePlayerProp}

// Stance represents whether a prediction is meant to be followed or faded
type Stance string

const (
	StanceOriginal Stance = "ORIGINAL"
	StanceInverse  Stance = "INVERSE"
)

// PredictionRecord represents a single prediction emitted by a model.
// Records are immutable once created; this engine only reads them.
type PredictionRecord struct {
	ID         uuid.UUID       `db:"id" json:"id" validate:"required"`
	ModelID    uuid.UUID       `db:"model_id" json:"model_id" validate:"required"`
	Sport      Sport           `db:"sport" json:"sport" validate:"required"`
	BetType    BetType         `db:"bet_type" json:"bet_type" validate:"required,oneof=moneyline spread total player_prop"`
	Subject    string          `db:"subject" json:"subject" validate:"required"`
	Prediction string          `db:"prediction" json:"prediction" validate:"required"`
	Confidence float64         `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	Odds       decimal.Decimal `db:"odds" json:"odds"`
	Stance     Stance          `db:"stance" json:"stance" validate:"required,oneof=ORIGINAL INVERSE"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at" validate:"required"`
}

// OddsFloat returns the posted decimal odds as a float64
func (p *PredictionRecord) OddsFloat() float64 {
	f, _ := p.Odds.Float64()
	return f
}

// MeetsConfidence checks if the stated confidence meets the given threshold
func (p *PredictionRecord) MeetsConfidence(threshold float64) bool {
	return p.Confidence >= threshold
}
