package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/engine"
	"github.com/yourusername/rank-engine/internal/models"
)

// PostgresCalibrationRepository implements CalibrationRepository for PostgreSQL
type PostgresCalibrationRepository struct {
	db *database.DB
}

// NewPostgresCalibrationRepository creates a new calibration repository
func NewPostgresCalibrationRepository(db *database.DB) CalibrationRepository {
	return &PostgresCalibrationRepository{db: db}
}

// GetLatestForModel retrieves the published confidence bands for one model on
// a partition. Bands with no predictions come back with a NULL accuracy.
func (r *PostgresCalibrationRepository) GetLatestForModel(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType) ([]engine.BandResult, error) {
	query := `
		SELECT c.band_lower, c.band_upper, c.total, c.correct, c.accuracy
		FROM calibration_bands c
		JOIN partition_publications pub
		  ON pub.sport = c.sport AND pub.bet_type = c.bet_type AND pub.run_id = c.run_id
		WHERE c.model_id = $1 AND c.sport = $2 AND c.bet_type = $3
		ORDER BY c.band_lower
	`

	rows, err := r.db.GetPool().Query(ctx, query, modelID, sport, betType)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration bands: %w", err)
	}
	defer rows.Close()

	var bands []engine.BandResult
	for rows.Next() {
		var b engine.BandResult
		err := rows.Scan(&b.Band.Lower, &b.Band.Upper, &b.Total, &b.Correct, &b.Accuracy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration band: %w", err)
		}
		bands = append(bands, b)
	}

	return bands, rows.Err()
}
