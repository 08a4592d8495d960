package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/rank-engine/internal/engine"
	"github.com/yourusername/rank-engine/internal/models"
)

// ModelRepository defines the interface for model registry access
type ModelRepository interface {
	GetAll(ctx context.Context) ([]models.ModelInfo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ModelInfo, error)
}

// OutcomeRepository defines read access to settled predictions. The engine
// never writes here; predictions and outcomes belong to the prediction system.
type OutcomeRepository interface {
	GetVerified(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time) ([]*models.VerifiedOutcome, error)
	GetVerifiedForModel(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType, start, end time.Time) ([]*models.VerifiedOutcome, error)
	GetBestAndWorst(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time) (*models.VerifiedOutcome, *models.VerifiedOutcome, error)
}

// SnapshotRepository defines read access to published performance snapshots
type SnapshotRepository interface {
	GetLatest(ctx context.Context, sport models.Sport, betType models.BetType, window models.Window) ([]*models.PerformanceSnapshot, error)
	GetModelHistory(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType, window models.Window, start, end time.Time) ([]*models.PerformanceSnapshot, error)
}

// RecommendationRepository defines read access to the latest verdicts
type RecommendationRepository interface {
	GetLatest(ctx context.Context, sport models.Sport, betType models.BetType) ([]models.Recommendation, error)
}

// WeightRepository defines read access to the latest ensemble weight set
type WeightRepository interface {
	GetLatest(ctx context.Context, sport models.Sport, betType models.BetType) (*models.WeightSet, error)
}

// CalibrationRepository defines read access to published confidence bands
type CalibrationRepository interface {
	GetLatestForModel(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType) ([]engine.BandResult, error)
}

// PublicationRepository atomically publishes a computed partition. Readers
// must observe either the previous complete run or the new one, never a mix.
type PublicationRepository interface {
	PublishPartition(ctx context.Context, result *engine.PartitionResult) error
}
