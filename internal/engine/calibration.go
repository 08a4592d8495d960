package engine

import (
	"fmt"

	"github.com/yourusername/rank-engine/internal/models"
)

// CalibrationBand is a fixed stated-confidence bucket. Lower is inclusive,
// Upper exclusive except for the final band which includes 1.0.
type CalibrationBand struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Label renders the band for display, e.g. "50-60%"
func (b CalibrationBand) Label() string {
	return fmt.Sprintf("%.0f-%.0f%%", b.Lower*100, b.Upper*100)
}

// Contains checks whether a stated confidence falls in the band
func (b CalibrationBand) Contains(confidence float64) bool {
	if b.Upper >= 1.0 {
		return confidence >= b.Lower && confidence <= 1.0
	}
	return confidence >= b.Lower && confidence < b.Upper
}

// DefaultBands are the confidence buckets shown on the calibration chart.
// Two-way markets never carry a stated confidence below 50%.
var DefaultBands = []CalibrationBand{
	{Lower: 0.5, Upper: 0.6},
	{Lower: 0.6, Upper: 0.7},
	{Lower: 0.7, Upper: 0.8},
	{Lower: 0.8, Upper: 0.9},
	{Lower: 0.9, Upper: 1.0},
}

// BandResult holds realized accuracy for one confidence band. Accuracy is nil
// when the band is empty so "no predictions" is never confused with
// "predicted 0% correct".
type BandResult struct {
	Band     CalibrationBand `json:"band"`
	Total    int             `json:"total"`
	Correct  int             `json:"correct"`
	Accuracy *float64        `json:"accuracy"`
}

// BinByConfidence buckets a model's verified outcomes by the confidence
// stated on the prediction at creation time, not the model's current
// confidence distribution.
func BinByConfidence(outcomes []*models.VerifiedOutcome) []BandResult {
	results := make([]BandResult, len(DefaultBands))
	for i, band := range DefaultBands {
		results[i] = BandResult{Band: band}
	}

	for _, vo := range outcomes {
		for i := range results {
			if !results[i].Band.Contains(vo.Prediction.Confidence) {
				continue
			}
			results[i].Total++
			if vo.Outcome.Correct {
				results[i].Correct++
			}
			break
		}
	}

	for i := range results {
		if results[i].Total > 0 {
			accuracy := float64(results[i].Correct) / float64(results[i].Total)
			results[i].Accuracy = &accuracy
		}
	}
	return results
}

// BinAllModels bins every model's outcomes within the recommendation window
func BinAllModels(rc RunContext, outcomes []*models.VerifiedOutcome) map[string][]BandResult {
	inWindow := FilterWindow(outcomes, rc.RecommendationWindow, rc.Now)

	byModel := make(map[string][]*models.VerifiedOutcome)
	for _, vo := range inWindow {
		key := vo.Prediction.ModelID.String()
		byModel[key] = append(byModel[key], vo)
	}

	binned := make(map[string][]BandResult, len(byModel))
	for modelID, records := range byModel {
		binned[modelID] = BinByConfidence(records)
	}
	return binned
}
