package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/parlay-engine/internal/database"
	"github.com/yourusername/parlay-engine/internal/models"
)

const outcomeColumns = `id, predicted_probability, actual_outcome, engine,
		COALESCE(sport, ''), COALESCE(bet_type, ''), COALESCE(confidence_level, ''), verified_at`

// PostgresOutcomeRepository implements OutcomeRepository for PostgreSQL
type PostgresOutcomeRepository struct {
	db database.Querier
}

// NewPostgresOutcomeRepository creates a new outcome repository
func NewPostgresOutcomeRepository(db database.Querier) OutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

// List retrieves verified outcomes matching the filter, newest first
func (r *PostgresOutcomeRepository) List(ctx context.Context, filter models.OutcomeFilter) ([]models.HistoricalOutcome, error) {
	where, args := buildOutcomeWhere(filter)
	query := "SELECT " + outcomeColumns + " FROM verified_outcomes" + where + " ORDER BY verified_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query verified outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.HistoricalOutcome
	for rows.Next() {
		var o models.HistoricalOutcome
		var engine string
		err := rows.Scan(
			&o.ID, &o.PredictedProbability, &o.ActualOutcome, &engine,
			&o.Sport, &o.BetType, &o.ConfidenceLevel, &o.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verified outcome: %w", err)
		}
		o.Engine = models.EngineID(engine)
		outcomes = append(outcomes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating verified outcomes: %w", err)
	}

	return outcomes, nil
}

// Count returns the number of verified outcomes matching the filter, ignoring Limit
func (r *PostgresOutcomeRepository) Count(ctx context.Context, filter models.OutcomeFilter) (int, error) {
	where, args := buildOutcomeWhere(filter)

	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM verified_outcomes"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count verified outcomes: %w", err)
	}
	return count, nil
}

func buildOutcomeWhere(filter models.OutcomeFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.Engine != "" {
		add("engine", string(filter.Engine))
	}
	if filter.Sport != "" {
		add("sport", filter.Sport)
	}
	if filter.BetType != "" {
		add("bet_type", filter.BetType)
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		clauses = append(clauses, fmt.Sprintf("verified_at >= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
