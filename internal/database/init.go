package database

import (
	"context"
	"fmt"

	"github.com/yourusername/rank-engine/internal/config"
)

// Initialize creates a database connection pool and verifies the engine's
// schema is present
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// Verify migrations are applied by checking for the snapshot table
	var exists bool
	err = db.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'performance_snapshots')",
	).Scan(&exists)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}

	if !exists {
		fmt.Println("Warning: performance_snapshots table not found. Please run database migrations.")
	}

	return db, nil
}
