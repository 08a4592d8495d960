package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/engine"
	"github.com/yourusername/rank-engine/internal/models"
)

// PostgresPublicationRepository implements PublicationRepository for
// PostgreSQL. A partition publish is one transaction: all rows for the run go
// in, superseded rows of the previous run are pruned, and the
// partition_publications pointer flips last. Every read path joins through the
// pointer, so a reader sees the old run or the new run in full, never a mix.
type PostgresPublicationRepository struct {
	db *database.DB
}

// NewPostgresPublicationRepository creates a new publication repository
func NewPostgresPublicationRepository(db *database.DB) PublicationRepository {
	return &PostgresPublicationRepository{db: db}
}

// PublishPartition atomically publishes every artifact of one computed
// partition. On any error the transaction rolls back and the previously
// published run stays visible.
func (r *PostgresPublicationRepository) PublishPartition(ctx context.Context, result *engine.PartitionResult) error {
	rc := result.RunContext

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertSnapshots(ctx, tx, result.Snapshots); err != nil {
			return err
		}
		if err := insertRecommendations(ctx, tx, result.Recommendations); err != nil {
			return err
		}
		if err := insertWeights(ctx, tx, result.Weights); err != nil {
			return err
		}
		if err := insertCalibration(ctx, tx, result); err != nil {
			return err
		}
		if err := pruneSuperseded(ctx, tx, rc); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO partition_publications (sport, bet_type, run_id, published_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (sport, bet_type)
			DO UPDATE SET run_id = EXCLUDED.run_id, published_at = EXCLUDED.published_at
		`, rc.Sport, rc.BetType, rc.RunID)
		if err != nil {
			return fmt.Errorf("failed to flip publication pointer: %w", err)
		}
		return nil
	})
}

func insertSnapshots(ctx context.Context, tx pgx.Tx, snapshots []*models.PerformanceSnapshot) error {
	query := `
		INSERT INTO performance_snapshots (
			run_id, model_id, sport, bet_type, stance, "window",
			total, correct, accuracy, mean_roi, stdev_roi,
			sharpe, insufficient_data, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	for _, s := range snapshots {
		_, err := tx.Exec(ctx, query,
			s.RunID, s.ModelID, s.Sport, s.BetType, s.Stance, s.Window,
			s.Total, s.Correct, s.Accuracy, s.MeanROI, s.StdevROI,
			s.Sharpe, s.InsufficientData, s.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}
	return nil
}

func insertRecommendations(ctx context.Context, tx pgx.Tx, recs []models.Recommendation) error {
	query := `
		INSERT INTO recommendations (
			run_id, model_id, sport, bet_type, "window",
			verdict, accuracy_diff, reason, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, rec := range recs {
		_, err := tx.Exec(ctx, query,
			rec.RunID, rec.ModelID, rec.Sport, rec.BetType, rec.Window,
			rec.Verdict, rec.AccuracyDiff, rec.Reason, rec.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}
	return nil
}

func insertWeights(ctx context.Context, tx pgx.Tx, ws *models.WeightSet) error {
	if ws == nil || ws.IsEmpty() {
		return nil
	}

	modelIDs := make([]uuid.UUID, 0, len(ws.Weights))
	for id := range ws.Weights {
		modelIDs = append(modelIDs, id)
	}
	sort.Slice(modelIDs, func(i, j int) bool {
		return modelIDs[i].String() < modelIDs[j].String()
	})

	query := `
		INSERT INTO ensemble_weights (
			run_id, sport, bet_type, "window", model_id, weight, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, id := range modelIDs {
		_, err := tx.Exec(ctx, query,
			ws.RunID, ws.Sport, ws.BetType, ws.Window, id, ws.Weights[id], ws.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ensemble weight: %w", err)
		}
	}
	return nil
}

func insertCalibration(ctx context.Context, tx pgx.Tx, result *engine.PartitionResult) error {
	rc := result.RunContext

	modelKeys := make([]string, 0, len(result.Calibration))
	for key := range result.Calibration {
		modelKeys = append(modelKeys, key)
	}
	sort.Strings(modelKeys)

	query := `
		INSERT INTO calibration_bands (
			run_id, model_id, sport, bet_type,
			band_lower, band_upper, total, correct, accuracy, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, key := range modelKeys {
		modelID, err := uuid.Parse(key)
		if err != nil {
			return fmt.Errorf("invalid model id %q in calibration results: %w", key, err)
		}
		for _, band := range result.Calibration[key] {
			_, err := tx.Exec(ctx, query,
				rc.RunID, modelID, rc.Sport, rc.BetType,
				band.Band.Lower, band.Band.Upper, band.Total, band.Correct, band.Accuracy, rc.Now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert calibration band: %w", err)
			}
		}
	}
	return nil
}

// pruneSuperseded removes the previous run's rows from the tables that only
// serve "latest" reads. Snapshots are kept for trend history.
func pruneSuperseded(ctx context.Context, tx pgx.Tx, rc engine.RunContext) error {
	prunable := []string{"recommendations", "ensemble_weights", "calibration_bands"}
	for _, table := range prunable {
		query := fmt.Sprintf(`
			DELETE FROM %s
			WHERE sport = $1 AND bet_type = $2 AND run_id <> $3
		`, table)
		if _, err := tx.Exec(ctx, query, rc.Sport, rc.BetType, rc.RunID); err != nil {
			return fmt.Errorf("failed to prune %s: %w", table, err)
		}
	}
	return nil
}
