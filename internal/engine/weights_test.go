package engine

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/models"
)

func ensembleSnapshot(rc RunContext, modelID uuid.UUID, total int, accuracy float64) *models.PerformanceSnapshot {
	return &models.PerformanceSnapshot{
		RunID:    rc.RunID,
		ModelID:  modelID,
		Sport:    rc.Sport,
		BetType:  rc.BetType,
		Stance:   models.StanceOriginal,
		Window:   rc.EnsembleWindow,
		Total:    total,
		Correct:  int(accuracy * float64(total)),
		Accuracy: accuracy,
	}
}

func TestCalculateWeightsSumToOne(t *testing.T) {
	rc := testRunContext()
	snapshots := []*models.PerformanceSnapshot{
		ensembleSnapshot(rc, uuid.New(), 30, 0.62),
		ensembleSnapshot(rc, uuid.New(), 25, 0.55),
		ensembleSnapshot(rc, uuid.New(), 40, 0.71),
	}

	set := CalculateWeights(rc, snapshots)
	if set.IsEmpty() {
		t.Fatal("expected a non-empty weight set")
	}
	if math.Abs(set.Sum()-1.0) > 1e-9 {
		t.Fatalf("weights must sum to 1 within 1e-9, got %.12f", set.Sum())
	}

	// Higher accuracy earns a larger share.
	best := snapshots[2].ModelID
	for id, w := range set.Weights {
		if id != best && w >= set.Weight(best) {
			t.Fatalf("model at 0.71 accuracy must carry the largest weight")
		}
	}
}

func TestCalculateWeightsIneligibleModelsExcluded(t *testing.T) {
	rc := testRunContext()
	smallSample := uuid.New()
	atChance := uuid.New()
	eligible := uuid.New()

	snapshots := []*models.PerformanceSnapshot{
		ensembleSnapshot(rc, smallSample, 5, 0.90),
		ensembleSnapshot(rc, atChance, 30, 0.50),
		ensembleSnapshot(rc, eligible, 30, 0.60),
	}

	set := CalculateWeights(rc, snapshots)
	if set.Weight(smallSample) != 0 {
		t.Fatal("model below the minimum sample must get weight 0")
	}
	if set.Weight(atChance) != 0 {
		t.Fatal("model at exactly 50% accuracy must get weight 0")
	}
	if set.Weight(eligible) != 1.0 {
		t.Fatalf("sole eligible model must get the full weight, got %f", set.Weight(eligible))
	}
}

func TestCalculateWeightsIgnoresOtherWindowsAndStances(t *testing.T) {
	rc := testRunContext()
	modelID := uuid.New()

	offWindow := ensembleSnapshot(rc, uuid.New(), 30, 0.80)
	offWindow.Window = models.Window90d
	offStance := ensembleSnapshot(rc, uuid.New(), 30, 0.80)
	offStance.Stance = models.StanceInverse

	set := CalculateWeights(rc, []*models.PerformanceSnapshot{
		offWindow,
		offStance,
		ensembleSnapshot(rc, modelID, 30, 0.58),
	})

	if len(set.Weights) != 1 {
		t.Fatalf("only the ensemble-window original-stance snapshot counts, got %d weights", len(set.Weights))
	}
	if set.Weight(modelID) != 1.0 {
		t.Fatalf("expected full weight for the eligible model, got %f", set.Weight(modelID))
	}
}

func TestCalculateWeightsEmptyFallback(t *testing.T) {
	rc := testRunContext()
	snapshots := []*models.PerformanceSnapshot{
		ensembleSnapshot(rc, uuid.New(), 30, 0.45),
		ensembleSnapshot(rc, uuid.New(), 8, 0.75),
	}

	set := CalculateWeights(rc, snapshots)
	if !set.IsEmpty() {
		t.Fatal("no eligible model must yield an empty weight set, not a guess")
	}
	if set.Sum() != 0 {
		t.Fatalf("empty set must sum to 0, got %f", set.Sum())
	}
}

func TestCalculateWeightsFromAggregatedSnapshots(t *testing.T) {
	rc := testRunContext()
	strong := uuid.New()
	weak := uuid.New()

	when := testNow.Add(-5 * 24 * time.Hour)
	outcomes := append(
		makeOutcomes(strong, 9, 12, when),
		makeOutcomes(weak, 5, 12, when)...,
	)

	snapshots := Aggregate(rc, rc.EnsembleWindow, outcomes)
	set := CalculateWeights(rc, snapshots)

	if set.Weight(strong) != 1.0 {
		t.Fatalf("only the above-chance model is eligible, got %f", set.Weight(strong))
	}
	if set.Weight(weak) != 0 {
		t.Fatal("below-chance model must be excluded")
	}
}
