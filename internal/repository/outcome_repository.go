package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/models"
)

const verifiedOutcomeColumns = `
	p.id, p.model_id, p.sport, p.bet_type, p.subject, p.prediction,
	p.confidence, p.odds, p.stance, p.created_at,
	o.id, o.prediction_id, o.correct, o.payout, o.roi, o.verified_at
`

// PostgresOutcomeRepository implements OutcomeRepository for PostgreSQL
type PostgresOutcomeRepository struct {
	db *database.DB
}

// NewPostgresOutcomeRepository creates a new outcome repository
func NewPostgresOutcomeRepository(db *database.DB) OutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

// GetVerified retrieves settled outcomes joined with their predictions for a
// partition and time range. Pending predictions have no outcome row and are
// naturally excluded by the join.
func (r *PostgresOutcomeRepository) GetVerified(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time) ([]*models.VerifiedOutcome, error) {
	query := `
		SELECT ` + verifiedOutcomeColumns + `
		FROM outcomes o
		JOIN predictions p ON p.id = o.prediction_id
		WHERE p.sport = $1 AND p.bet_type = $2
		  AND o.verified_at >= $3 AND o.verified_at <= $4
		ORDER BY o.verified_at
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, betType, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query verified outcomes: %w", err)
	}
	defer rows.Close()

	return scanVerifiedOutcomes(rows)
}

// GetVerifiedForModel retrieves settled outcomes for a single model
func (r *PostgresOutcomeRepository) GetVerifiedForModel(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType, start, end time.Time) ([]*models.VerifiedOutcome, error) {
	query := `
		SELECT ` + verifiedOutcomeColumns + `
		FROM outcomes o
		JOIN predictions p ON p.id = o.prediction_id
		WHERE p.model_id = $1 AND p.sport = $2 AND p.bet_type = $3
		  AND o.verified_at >= $4 AND o.verified_at <= $5
		ORDER BY o.verified_at
	`

	rows, err := r.db.GetPool().Query(ctx, query, modelID, sport, betType, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query verified outcomes for model: %w", err)
	}
	defer rows.Close()

	return scanVerifiedOutcomes(rows)
}

// GetBestAndWorst retrieves the single highest- and lowest-ROI outcomes in
// the range, for the highlight cards
func (r *PostgresOutcomeRepository) GetBestAndWorst(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time) (*models.VerifiedOutcome, *models.VerifiedOutcome, error) {
	best, err := r.getExtreme(ctx, sport, betType, start, end, "DESC")
	if err != nil {
		return nil, nil, err
	}
	worst, err := r.getExtreme(ctx, sport, betType, start, end, "ASC")
	if err != nil {
		return nil, nil, err
	}
	return best, worst, nil
}

func (r *PostgresOutcomeRepository) getExtreme(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time, direction string) (*models.VerifiedOutcome, error) {
	query := `
		SELECT ` + verifiedOutcomeColumns + `
		FROM outcomes o
		JOIN predictions p ON p.id = o.prediction_id
		WHERE p.sport = $1 AND p.bet_type = $2
		  AND o.verified_at >= $3 AND o.verified_at <= $4
		ORDER BY o.roi ` + direction + `, o.verified_at
		LIMIT 1
	`

	row := r.db.GetPool().QueryRow(ctx, query, sport, betType, start, end)
	vo := &models.VerifiedOutcome{}
	err := row.Scan(
		&vo.Prediction.ID, &vo.Prediction.ModelID, &vo.Prediction.Sport, &vo.Prediction.BetType,
		&vo.Prediction.Subject, &vo.Prediction.Prediction, &vo.Prediction.Confidence,
		&vo.Prediction.Odds, &vo.Prediction.Stance, &vo.Prediction.CreatedAt,
		&vo.Outcome.ID, &vo.Outcome.PredictionID, &vo.Outcome.Correct,
		&vo.Outcome.Payout, &vo.Outcome.ROI, &vo.Outcome.VerifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query extreme outcome: %w", err)
	}
	return vo, nil
}

func scanVerifiedOutcomes(rows pgx.Rows) ([]*models.VerifiedOutcome, error) {
	var outcomes []*models.VerifiedOutcome
	for rows.Next() {
		vo := &models.VerifiedOutcome{}
		err := rows.Scan(
			&vo.Prediction.ID, &vo.Prediction.ModelID, &vo.Prediction.Sport, &vo.Prediction.BetType,
			&vo.Prediction.Subject, &vo.Prediction.Prediction, &vo.Prediction.Confidence,
			&vo.Prediction.Odds, &vo.Prediction.Stance, &vo.Prediction.CreatedAt,
			&vo.Outcome.ID, &vo.Outcome.PredictionID, &vo.Outcome.Correct,
			&vo.Outcome.Payout, &vo.Outcome.ROI, &vo.Outcome.VerifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verified outcome: %w", err)
		}
		outcomes = append(outcomes, vo)
	}
	return outcomes, rows.Err()
}
