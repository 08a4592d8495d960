package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/models"
)

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL.
// Reads always go through the partition_publications pointer so a concurrent
// recompute is invisible until its whole partition is committed.
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// GetLatest retrieves the published snapshots for one partition and window
func (r *PostgresSnapshotRepository) GetLatest(ctx context.Context, sport models.Sport, betType models.BetType, window models.Window) ([]*models.PerformanceSnapshot, error) {
	query := `
		SELECT s.run_id, s.model_id, s.sport, s.bet_type, s.stance, s."window",
		       s.total, s.correct, s.accuracy, s.mean_roi, s.stdev_roi,
		       s.sharpe, s.insufficient_data, s.computed_at
		FROM performance_snapshots s
		JOIN partition_publications pub
		  ON pub.sport = s.sport AND pub.bet_type = s.bet_type AND pub.run_id = s.run_id
		WHERE s.sport = $1 AND s.bet_type = $2 AND s."window" = $3
		ORDER BY s.model_id, s.stance
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, betType, window)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.PerformanceSnapshot
	for rows.Next() {
		s := &models.PerformanceSnapshot{}
		err := rows.Scan(
			&s.RunID, &s.ModelID, &s.Sport, &s.BetType, &s.Stance, &s.Window,
			&s.Total, &s.Correct, &s.Accuracy, &s.MeanROI, &s.StdevROI,
			&s.Sharpe, &s.InsufficientData, &s.ComputedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// GetModelHistory retrieves retained snapshots of past runs for trend charts
func (r *PostgresSnapshotRepository) GetModelHistory(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType, window models.Window, start, end time.Time) ([]*models.PerformanceSnapshot, error) {
	query := `
		SELECT run_id, model_id, sport, bet_type, stance, "window",
		       total, correct, accuracy, mean_roi, stdev_roi,
		       sharpe, insufficient_data, computed_at
		FROM performance_snapshots
		WHERE model_id = $1 AND sport = $2 AND bet_type = $3 AND "window" = $4
		  AND stance = $5
		  AND computed_at >= $6 AND computed_at <= $7
		ORDER BY computed_at
	`

	rows, err := r.db.GetPool().Query(ctx, query, modelID, sport, betType, window, models.StanceOriginal, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.PerformanceSnapshot
	for rows.Next() {
		s := &models.PerformanceSnapshot{}
		err := rows.Scan(
			&s.RunID, &s.ModelID, &s.Sport, &s.BetType, &s.Stance, &s.Window,
			&s.Total, &s.Correct, &s.Accuracy, &s.MeanROI, &s.StdevROI,
			&s.Sharpe, &s.InsufficientData, &s.ComputedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}
