package engine

import (
	"fmt"
	"sort"

	"github.com/yourusername/rank-engine/internal/models"
)

// boundaryTolerance absorbs float64 rounding when the accuracy diff lands
// exactly on the threshold; rounding noise must not flip the verdict. This
// widens the ORIGINAL band to (threshold, threshold+1e-9]; accuracy diffs are
// ratios of integer counts and never land that close to the threshold.
const boundaryTolerance = 1e-9

// Classify turns a stance pair into a terminal verdict. The decision is
// re-evaluated fresh each run; there is no persisted transition state.
//
// Order matters and the threshold boundary is exclusive: a diff of exactly
// DiffThreshold keeps the ORIGINAL verdict when the original stance clears
// chance. When both stances clear 50% inside the threshold band, ORIGINAL
// wins as the simpler, non-contrarian strategy.
func Classify(rc RunContext, pair StancePair) models.Recommendation {
	rec := models.Recommendation{
		RunID:        rc.RunID,
		ModelID:      pair.Original.ModelID,
		Sport:        rc.Sport,
		BetType:      rc.BetType,
		Window:       pair.Original.Window,
		AccuracyDiff: pair.AccuracyDiff(),
		ComputedAt:   rc.Now,
	}

	switch {
	case pair.Original.Total < rc.MinSample:
		rec.Verdict = models.VerdictAvoid
		rec.Reason = fmt.Sprintf("insufficient data: %d verified outcomes, need %d", pair.Original.Total, rc.MinSample)

	case rec.AccuracyDiff > rc.DiffThreshold+boundaryTolerance && pair.Inverse.Accuracy > 0.5:
		rec.Verdict = models.VerdictInverse
		rec.Reason = fmt.Sprintf("fading outperforms by %.1f points at %.1f%% accuracy",
			rec.AccuracyDiff*100, pair.Inverse.Accuracy*100)

	case pair.Original.Accuracy > 0.5 && rec.AccuracyDiff <= rc.DiffThreshold+boundaryTolerance:
		rec.Verdict = models.VerdictOriginal
		rec.Reason = fmt.Sprintf("original stance profitable at %.1f%% accuracy", pair.Original.Accuracy*100)

	default:
		rec.Verdict = models.VerdictAvoid
		rec.Reason = "neither stance clears 50% accuracy"
	}

	return rec
}

// ClassifyAll classifies every paired model on the recommendation window
func ClassifyAll(rc RunContext, snapshots []*models.PerformanceSnapshot) []models.Recommendation {
	pairs := PairStances(snapshots, rc.RecommendationWindow)

	recs := make([]models.Recommendation, 0, len(pairs))
	for _, pair := range pairs {
		recs = append(recs, Classify(rc, pair))
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ModelID.String() < recs[j].ModelID.String()
	})
	return recs
}
