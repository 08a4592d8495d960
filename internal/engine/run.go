package engine

import (
	"github.com/yourusername/rank-engine/internal/models"
)

// PartitionResult is everything one (sport, bet type) partition publishes:
// snapshots for every window and stance, the latest recommendations, the
// ensemble weight set and per-model calibration bands.
type PartitionResult struct {
	RunContext      RunContext
	Snapshots       []*models.PerformanceSnapshot
	Recommendations []models.Recommendation
	Weights         *models.WeightSet
	Calibration     map[string][]BandResult
}

// ComputePartition runs the full statistics pass for one partition. The two
// phases are strict: aggregation over every window completes before the
// classifier and weight calculator read the finished snapshot set. The input
// slice is read-only and the computation touches no shared state, so
// independent partitions can run concurrently.
func ComputePartition(rc RunContext, outcomes []*models.VerifiedOutcome) *PartitionResult {
	// Phase one: aggregate all windows.
	snapshots := make([]*models.PerformanceSnapshot, 0, len(rc.Windows)*2)
	for _, window := range rc.Windows {
		snapshots = append(snapshots, Aggregate(rc, window, outcomes)...)
	}

	// Phase two: everything below reads only the finished snapshots.
	result := &PartitionResult{
		RunContext:      rc,
		Snapshots:       snapshots,
		Recommendations: ClassifyAll(rc, snapshots),
		Weights:         CalculateWeights(rc, snapshots),
		Calibration:     BinAllModels(rc, outcomes),
	}
	return result
}
