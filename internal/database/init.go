package database

import (
	"context"
	"fmt"

	"github.com/yourusername/parlay-engine/internal/config"
)

// RequiredTables are read by the engine and must exist before it starts
var RequiredTables = []string{"verified_outcomes", "bankroll_settings"}

// Initialize creates a database connection pool and verifies the schema is in place
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := VerifySchema(ctx, db.Querier()); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// VerifySchema checks every required table exists
func VerifySchema(ctx context.Context, q Querier) error {
	for _, table := range RequiredTables {
		var exists bool
		if err := q.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("table %s not found: apply migrations/001_engine_tables.up.sql", table)
		}
	}
	return nil
}
