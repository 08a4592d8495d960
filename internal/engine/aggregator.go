package engine

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/models"
)

// Aggregate reduces verified outcomes into per-model snapshots for one
// lookback window. For every model with at least one record in the window it
// produces an ORIGINAL-stance snapshot from the outcomes as stated and an
// INVERSE-stance snapshot with every correct flag negated and ROI recomputed
// at the complementary market price. Models with zero records in the window
// are omitted entirely, not reported as zero.
func Aggregate(rc RunContext, window models.Window, outcomes []*models.VerifiedOutcome) []*models.PerformanceSnapshot {
	inWindow := FilterWindow(outcomes, window, rc.Now)

	byModel := make(map[uuid.UUID][]*models.VerifiedOutcome)
	for _, vo := range inWindow {
		byModel[vo.Prediction.ModelID] = append(byModel[vo.Prediction.ModelID], vo)
	}

	// Deterministic output order so repeated runs over the same input are
	// bit-identical.
	modelIDs := make([]uuid.UUID, 0, len(byModel))
	for id := range byModel {
		modelIDs = append(modelIDs, id)
	}
	sort.Slice(modelIDs, func(i, j int) bool {
		return modelIDs[i].String() < modelIDs[j].String()
	})

	snapshots := make([]*models.PerformanceSnapshot, 0, len(modelIDs)*2)
	for _, modelID := range modelIDs {
		records := byModel[modelID]
		snapshots = append(snapshots,
			aggregateStance(rc, window, modelID, records, models.StanceOriginal),
			aggregateStance(rc, window, modelID, records, models.StanceInverse),
		)
	}
	return snapshots
}

// FilterWindow returns the outcomes whose verification timestamp falls within
// the window ending at now
func FilterWindow(outcomes []*models.VerifiedOutcome, window models.Window, now time.Time) []*models.VerifiedOutcome {
	start := window.Start(now)
	filtered := make([]*models.VerifiedOutcome, 0, len(outcomes))
	for _, vo := range outcomes {
		if vo.Outcome.VerifiedAt.After(now) {
			continue
		}
		if !start.IsZero() && vo.Outcome.VerifiedAt.Before(start) {
			continue
		}
		filtered = append(filtered, vo)
	}
	return filtered
}

func aggregateStance(rc RunContext, window models.Window, modelID uuid.UUID, records []*models.VerifiedOutcome, stance models.Stance) *models.PerformanceSnapshot {
	snapshot := &models.PerformanceSnapshot{
		RunID:      rc.RunID,
		ModelID:    modelID,
		Sport:      rc.Sport,
		BetType:    rc.BetType,
		Stance:     stance,
		Window:     window,
		Total:      len(records),
		ComputedAt: rc.Now,
	}

	if len(records) == 0 {
		snapshot.InsufficientData = true
		return snapshot
	}

	rois := make([]float64, 0, len(records))
	for _, vo := range records {
		if vo.StanceCorrect(stance) {
			snapshot.Correct++
		}
		rois = append(rois, vo.StanceROI(stance))
	}

	snapshot.Accuracy = float64(snapshot.Correct) / float64(snapshot.Total)
	snapshot.MeanROI = average(rois)
	snapshot.StdevROI = populationStddev(rois)
	snapshot.InsufficientData = snapshot.Total < rc.MinSample

	// Sharpe is undefined when returns carry no variance, never coerced to 0.
	if snapshot.StdevROI > 0 {
		sharpe := snapshot.MeanROI / snapshot.StdevROI
		snapshot.Sharpe = &sharpe
	}

	return snapshot
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStddev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
