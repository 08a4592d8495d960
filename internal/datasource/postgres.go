package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/rank-engine/internal/models"
	"github.com/yourusername/rank-engine/internal/repository"
)

// PostgresSource reads settled outcomes straight from the engine's own
// database. This is the default source when predictions and outcomes are
// ingested into the same PostgreSQL instance the engine publishes to.
type PostgresSource struct {
	outcomes repository.OutcomeRepository
}

// NewPostgresSource creates an outcome source backed by the outcome repository
func NewPostgresSource(outcomes repository.OutcomeRepository) *PostgresSource {
	return &PostgresSource{outcomes: outcomes}
}

// Name returns the name of the outcome source
func (s *PostgresSource) Name() string {
	return "postgres"
}

// FetchVerified retrieves settled outcomes for one partition in the range
func (s *PostgresSource) FetchVerified(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time) ([]*models.VerifiedOutcome, error) {
	outcomes, err := s.outcomes.GetVerified(ctx, sport, betType, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return outcomes, nil
}
