package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/parlay-engine/internal/database"
	"github.com/yourusername/parlay-engine/internal/models"
)

// PostgresBankrollRepository implements BankrollRepository for PostgreSQL
type PostgresBankrollRepository struct {
	db database.Querier
}

// NewPostgresBankrollRepository creates a new bankroll repository
func NewPostgresBankrollRepository(db database.Querier) BankrollRepository {
	return &PostgresBankrollRepository{db: db}
}

// GetByUserID retrieves a user's bankroll settings
func (r *PostgresBankrollRepository) GetByUserID(ctx context.Context, userID string) (*models.BankrollSettings, error) {
	query := `
		SELECT user_id, bankroll_amount, max_bet_percent, default_unit_size, kelly_multiplier, updated_at
		FROM bankroll_settings
		WHERE user_id = $1
	`

	settings := &models.BankrollSettings{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&settings.UserID, &settings.BankrollAmount, &settings.MaxBetPercent,
		&settings.DefaultUnitSize, &settings.KellyMultiplier, &settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bankroll settings: %w", err)
	}

	return settings, nil
}
