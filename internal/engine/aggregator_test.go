package engine

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/rank-engine/internal/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testRunContext() RunContext {
	rc := NewRunContext("nba", models.BetTypeMoneyline, testNow)
	rc.RunID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	return rc
}

func makeOutcome(modelID uuid.UUID, correct bool, confidence, roi float64, verifiedAt time.Time) *models.VerifiedOutcome {
	return &models.VerifiedOutcome{
		Prediction: models.PredictionRecord{
			ID:         uuid.New(),
			ModelID:    modelID,
			Sport:      "nba",
			BetType:    models.BetTypeMoneyline,
			Subject:    "LAL@BOS",
			Prediction: "BOS",
			Confidence: confidence,
			Odds:       decimal.NewFromFloat(1.91),
			Stance:     models.StanceOriginal,
			CreatedAt:  verifiedAt.Add(-6 * time.Hour),
		},
		Outcome: models.OutcomeRecord{
			ID:           uuid.New(),
			PredictionID: uuid.New(),
			Correct:      correct,
			Payout:       decimal.NewFromFloat(1 + roi),
			ROI:          roi,
			VerifiedAt:   verifiedAt,
		},
	}
}

func makeOutcomes(modelID uuid.UUID, correct, total int, verifiedAt time.Time) []*models.VerifiedOutcome {
	outcomes := make([]*models.VerifiedOutcome, 0, total)
	for i := 0; i < total; i++ {
		roi := -1.0
		if i < correct {
			roi = 0.91
		}
		outcomes = append(outcomes, makeOutcome(modelID, i < correct, 0.65, roi, verifiedAt))
	}
	return outcomes
}

func findSnapshot(snapshots []*models.PerformanceSnapshot, modelID uuid.UUID, stance models.Stance) *models.PerformanceSnapshot {
	for _, s := range snapshots {
		if s.ModelID == modelID && s.Stance == stance {
			return s
		}
	}
	return nil
}

func TestAggregateCounts(t *testing.T) {
	rc := testRunContext()
	modelID := uuid.New()
	outcomes := makeOutcomes(modelID, 8, 12, testNow.Add(-24*time.Hour))

	snapshots := Aggregate(rc, models.WindowAll, outcomes)
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 snapshots (both stances), got %d", len(snapshots))
	}

	original := findSnapshot(snapshots, modelID, models.StanceOriginal)
	if original == nil {
		t.Fatal("missing original-stance snapshot")
	}
	if original.Total != 12 || original.Correct != 8 {
		t.Fatalf("expected 8/12, got %d/%d", original.Correct, original.Total)
	}
	if original.Accuracy < 0 || original.Accuracy > 1 {
		t.Fatalf("accuracy out of range: %f", original.Accuracy)
	}
	if original.Correct+original.Incorrect() != original.Total {
		t.Fatalf("correct + incorrect != total")
	}
	if original.InsufficientData {
		t.Fatal("12 outcomes should clear the minimum sample")
	}

	inverse := findSnapshot(snapshots, modelID, models.StanceInverse)
	if inverse == nil {
		t.Fatal("missing inverse-stance snapshot")
	}
	if inverse.Correct != 4 {
		t.Fatalf("inverse correct should be negated original, got %d", inverse.Correct)
	}
}

func TestAggregateZeroRecordModelOmitted(t *testing.T) {
	rc := testRunContext()
	active := uuid.New()
	outcomes := makeOutcomes(active, 3, 5, testNow.Add(-24*time.Hour))

	snapshots := Aggregate(rc, models.WindowAll, outcomes)
	for _, s := range snapshots {
		if s.ModelID != active {
			t.Fatalf("unexpected snapshot for model %s with no records", s.ModelID)
		}
	}
}

func TestAggregateInsufficientDataMarker(t *testing.T) {
	rc := testRunContext()
	modelID := uuid.New()
	outcomes := makeOutcomes(modelID, 9, 9, testNow.Add(-24*time.Hour))

	snapshots := Aggregate(rc, models.WindowAll, outcomes)
	original := findSnapshot(snapshots, modelID, models.StanceOriginal)
	if !original.InsufficientData {
		t.Fatal("9 outcomes must be flagged insufficient below the default minimum of 10")
	}
	if original.Accuracy != 1.0 {
		t.Fatalf("accuracy should still be reported, got %f", original.Accuracy)
	}
}

func TestAggregateWindowFiltering(t *testing.T) {
	rc := testRunContext()
	modelID := uuid.New()
	recent := makeOutcomes(modelID, 5, 10, testNow.Add(-10*24*time.Hour))
	stale := makeOutcomes(modelID, 10, 10, testNow.Add(-200*24*time.Hour))

	snapshots := Aggregate(rc, models.Window30d, append(recent, stale...))
	original := findSnapshot(snapshots, modelID, models.StanceOriginal)
	if original.Total != 10 {
		t.Fatalf("30d window should only see recent outcomes, got %d", original.Total)
	}

	snapshots = Aggregate(rc, models.WindowAll, append(recent, stale...))
	original = findSnapshot(snapshots, modelID, models.StanceOriginal)
	if original.Total != 20 {
		t.Fatalf("all-time window should see everything, got %d", original.Total)
	}
}

func TestAggregateSharpeUndefinedWithoutVariance(t *testing.T) {
	rc := testRunContext()
	modelID := uuid.New()

	// Identical ROI on every outcome leaves zero variance.
	outcomes := []*models.VerifiedOutcome{
		makeOutcome(modelID, true, 0.6, 0.5, testNow.Add(-time.Hour)),
		makeOutcome(modelID, true, 0.6, 0.5, testNow.Add(-2*time.Hour)),
	}

	snapshots := Aggregate(rc, models.WindowAll, outcomes)
	original := findSnapshot(snapshots, modelID, models.StanceOriginal)
	if original.Sharpe != nil {
		t.Fatalf("sharpe must be undefined when stdev is 0, got %f", *original.Sharpe)
	}
	if original.StdevROI != 0 {
		t.Fatalf("expected zero stdev, got %f", original.StdevROI)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	rc := testRunContext()
	outcomes := make([]*models.VerifiedOutcome, 0)
	for i := 0; i < 4; i++ {
		modelID := uuid.New()
		outcomes = append(outcomes, makeOutcomes(modelID, 5+i, 12, testNow.Add(-48*time.Hour))...)
	}

	first, err := json.Marshal(Aggregate(rc, models.WindowAll, outcomes))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(Aggregate(rc, models.WindowAll, outcomes))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatal("aggregation over the same immutable input must be bit-identical")
	}
}

func TestPopulationStddevSingleValue(t *testing.T) {
	if populationStddev([]float64{0.4}) != 0 {
		t.Fatal("stdev of a single value must be 0")
	}
}
