package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunLogger logs batch run lifecycle events with consistent fields so a run
// can be reconstructed from the log stream alone.
type RunLogger struct {
	logger *logrus.Logger
}

// NewRunLogger creates a run logger on top of a base logger
func NewRunLogger(logger *logrus.Logger) *RunLogger {
	return &RunLogger{logger: logger}
}

// LogRunStarted records the start of a scheduled recompute run
func (rl *RunLogger) LogRunStarted(runID string, sports []string, partitions int) {
	rl.logger.WithFields(logrus.Fields{
		"component":  "ranking_run",
		"event_type": "run_started",
		"run_id":     runID,
		"sports":     sports,
		"partitions": partitions,
	}).Info("Ranking run started")
}

// LogRunCompleted records a finished run with its outcome counts
func (rl *RunLogger) LogRunCompleted(runID string, computed, failed, skippedRecords int, duration time.Duration) {
	rl.logger.WithFields(logrus.Fields{
		"component":            "ranking_run",
		"event_type":           "run_completed",
		"run_id":               runID,
		"partitions_computed":  computed,
		"partitions_failed":    failed,
		"records_skipped":      skippedRecords,
		"duration_ms":          duration.Milliseconds(),
	}).Info("Ranking run completed")
}

// LogPartitionPublished records an atomically published partition
func (rl *RunLogger) LogPartitionPublished(runID, sport, betType string, snapshots, recommendations int, weightedModels int) {
	rl.logger.WithFields(logrus.Fields{
		"component":       "ranking_run",
		"event_type":      "partition_published",
		"run_id":          runID,
		"sport":           sport,
		"bet_type":        betType,
		"snapshots":       snapshots,
		"recommendations": recommendations,
		"weighted_models": weightedModels,
	}).Info("Partition published")
}

// LogPartitionFailed records a partition left on its previous snapshot
func (rl *RunLogger) LogPartitionFailed(runID, sport, betType string, err error) {
	rl.logger.WithFields(logrus.Fields{
		"component":  "ranking_run",
		"event_type": "partition_failed",
		"run_id":     runID,
		"sport":      sport,
		"bet_type":   betType,
	}).WithError(err).Error("Partition failed, previous snapshot remains published")
}

// LogRecordSkipped records an input-integrity rejection
func (rl *RunLogger) LogRecordSkipped(outcomeID string, reason string) {
	rl.logger.WithFields(logrus.Fields{
		"component":  "ranking_run",
		"event_type": "record_skipped",
		"outcome_id": outcomeID,
		"reason":     reason,
	}).Warn("Outcome record excluded from aggregation")
}
