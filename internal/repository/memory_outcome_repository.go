package repository

import (
	"context"
	"sort"

	"github.com/yourusername/parlay-engine/internal/models"
)

// MemoryOutcomeRepository serves verified outcomes from memory, for offline
// calibration runs over exported history.
type MemoryOutcomeRepository struct {
	rows []models.HistoricalOutcome
}

// NewMemoryOutcomeRepository creates a repository over rows, which it sorts newest first
func NewMemoryOutcomeRepository(rows []models.HistoricalOutcome) OutcomeRepository {
	sorted := append([]models.HistoricalOutcome(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return &MemoryOutcomeRepository{rows: sorted}
}

// List returns rows matching the filter, newest first
func (r *MemoryOutcomeRepository) List(ctx context.Context, filter models.OutcomeFilter) ([]models.HistoricalOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.HistoricalOutcome
	for _, row := range r.rows {
		if !filter.Matches(row) {
			continue
		}
		out = append(out, row)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of rows matching the filter, ignoring Limit
func (r *MemoryOutcomeRepository) Count(ctx context.Context, filter models.OutcomeFilter) (int, error) {
	filter.Limit = 0
	rows, err := r.List(ctx, filter)
	return len(rows), err
}
