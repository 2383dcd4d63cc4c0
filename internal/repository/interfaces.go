package repository

import (
	"context"

	"github.com/yourusername/parlay-engine/internal/models"
)

// OutcomeRepository defines the interface for verified outcome data access.
// The engine never writes outcome history.
type OutcomeRepository interface {
	List(ctx context.Context, filter models.OutcomeFilter) ([]models.HistoricalOutcome, error)
	Count(ctx context.Context, filter models.OutcomeFilter) (int, error)
}

// BankrollRepository defines the interface for bankroll settings data access
type BankrollRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.BankrollSettings, error)
}
