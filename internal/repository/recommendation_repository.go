package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/models"
)

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) RecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

// GetLatest retrieves the published verdicts for one partition
func (r *PostgresRecommendationRepository) GetLatest(ctx context.Context, sport models.Sport, betType models.BetType) ([]models.Recommendation, error) {
	query := `
		SELECT rec.run_id, rec.model_id, rec.sport, rec.bet_type, rec."window",
		       rec.verdict, rec.accuracy_diff, rec.reason, rec.computed_at
		FROM recommendations rec
		JOIN partition_publications pub
		  ON pub.sport = rec.sport AND pub.bet_type = rec.bet_type AND pub.run_id = rec.run_id
		WHERE rec.sport = $1 AND rec.bet_type = $2
		ORDER BY rec.model_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, betType)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []models.Recommendation
	for rows.Next() {
		var rec models.Recommendation
		err := rows.Scan(
			&rec.RunID, &rec.ModelID, &rec.Sport, &rec.BetType, &rec.Window,
			&rec.Verdict, &rec.AccuracyDiff, &rec.Reason, &rec.ComputedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
