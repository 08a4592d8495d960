package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/rank-engine/internal/database"
	"github.com/yourusername/rank-engine/internal/models"
)

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// GetAll retrieves every registered model, system and user-defined alike
func (r *PostgresModelRepository) GetAll(ctx context.Context) ([]models.ModelInfo, error) {
	query := `
		SELECT id, name, kind, owner_id, description, active, created_at
		FROM models
		ORDER BY name
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var infos []models.ModelInfo
	for rows.Next() {
		var info models.ModelInfo
		err := rows.Scan(&info.ID, &info.Name, &info.Kind, &info.OwnerID, &info.Description, &info.Active, &info.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// GetByID retrieves a single model by its identifier
func (r *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ModelInfo, error) {
	query := `
		SELECT id, name, kind, owner_id, description, active, created_at
		FROM models
		WHERE id = $1
	`

	info := &models.ModelInfo{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&info.ID, &info.Name, &info.Kind, &info.OwnerID, &info.Description, &info.Active, &info.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	return info, nil
}
