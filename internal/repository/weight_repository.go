package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/models"
)

// PostgresWeightRepository implements WeightRepository for PostgreSQL
type PostgresWeightRepository struct {
	db *database.DB
}

// NewPostgresWeightRepository creates a new weight repository
func NewPostgresWeightRepository(db *database.DB) WeightRepository {
	return &PostgresWeightRepository{db: db}
}

// GetLatest reconstructs the published ensemble weight set for one partition.
// An empty Weights map means no model was eligible in the last run.
func (r *PostgresWeightRepository) GetLatest(ctx context.Context, sport models.Sport, betType models.BetType) (*models.WeightSet, error) {
	query := `
		SELECT w.run_id, w.sport, w.bet_type, w."window", w.model_id, w.weight, w.computed_at
		FROM ensemble_weights w
		JOIN partition_publications pub
		  ON pub.sport = w.sport AND pub.bet_type = w.bet_type AND pub.run_id = w.run_id
		WHERE w.sport = $1 AND w.bet_type = $2
		ORDER BY w.model_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, betType)
	if err != nil {
		return nil, fmt.Errorf("failed to query ensemble weights: %w", err)
	}
	defer rows.Close()

	ws := &models.WeightSet{
		Sport:   sport,
		BetType: betType,
		Weights: make(map[uuid.UUID]float64),
	}
	for rows.Next() {
		var modelID uuid.UUID
		var weight float64
		err := rows.Scan(&ws.RunID, &ws.Sport, &ws.BetType, &ws.Window, &modelID, &weight, &ws.ComputedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ensemble weight: %w", err)
		}
		ws.Weights[modelID] = weight
	}

	return ws, rows.Err()
}
