// Package helpers provides shared utilities for integration tests.
package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rank-engine/internal/models"
)

// SetupTestDB connects to the integration test database. Tests are skipped
// when TEST_DATABASE_URL is not set.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("skipping integration test, TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "failed to connect to test database")

	err = pool.Ping(ctx)
	require.NoError(t, err, "failed to ping test database")

	return pool
}

// CleanupDatabase truncates all engine tables between tests.
func CleanupDatabase(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	tables := []string{
		"partition_publications",
		"calibration_bands",
		"ensemble_weights",
		"recommendations",
		"performance_snapshots",
		"outcomes",
		"predictions",
		"models",
	}

	ctx := context.Background()
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Logf("Warning: failed to truncate table %s: %v", table, err)
		}
	}
}

// TeardownTestDB cleans up test data and closes the pool.
func TeardownTestDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	CleanupDatabase(t, pool)
	pool.Close()
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// InsertTestModel inserts a model registry row and returns its ID.
func InsertTestModel(t *testing.T, pool *pgxpool.Pool, name string, kind models.ModelKind) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO models (id, name, kind, description, active, created_at)
		VALUES ($1, $2, $3, '', TRUE, NOW())
	`, id, name, kind)
	require.NoError(t, err, "failed to insert test model")
	return id
}

// InsertTestOutcome inserts a prediction and its verified outcome.
func InsertTestOutcome(t *testing.T, pool *pgxpool.Pool, modelID uuid.UUID, sport models.Sport, betType models.BetType, correct bool, verifiedAt time.Time) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	predID := uuid.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO predictions (id, model_id, sport, bet_type, subject, prediction, confidence, odds, stance, created_at)
		VALUES ($1, $2, $3, $4, 'LAL@BOS', 'BOS', 0.62, $5, 'ORIGINAL', $6)
	`, predID, modelID, sport, betType, decimal.NewFromFloat(1.91), verifiedAt.Add(-24*time.Hour))
	require.NoError(t, err, "failed to insert test prediction")

	roi := -1.0
	if correct {
		roi = 0.91
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO outcomes (id, prediction_id, correct, payout, roi, verified_at)
		VALUES ($1, $2, $3, 0, $4, $5)
	`, uuid.New(), predID, correct, roi, verifiedAt)
	require.NoError(t, err, "failed to insert test outcome")

	return predID
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
