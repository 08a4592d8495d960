package repository

import (
	"fmt"

	"github.com/yourusername/rank-engine/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Model          ModelRepository
	Outcome        OutcomeRepository
	Snapshot       SnapshotRepository
	Recommendation RecommendationRepository
	Weight         WeightRepository
	Calibration    CalibrationRepository
	Publication    PublicationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Model:          NewPostgresModelRepository(db),
		Outcome:        NewPostgresOutcomeRepository(db),
		Snapshot:       NewPostgresSnapshotRepository(db),
		Recommendation: NewPostgresRecommendationRepository(db),
		Weight:         NewPostgresWeightRepository(db),
		Calibration:    NewPostgresCalibrationRepository(db),
		Publication:    NewPostgresPublicationRepository(db),
	}, nil
}
