package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoricalOutcome is a verified prediction row: what an engine predicted and what happened
type HistoricalOutcome struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	PredictedProbability float64   `db:"predicted_probability" json:"predicted_probability" validate:"gte=0,lte=1"`
	ActualOutcome        bool      `db:"actual_outcome" json:"actual_outcome"`
	Engine               EngineID  `db:"engine" json:"engine" validate:"required"`
	Sport                string    `db:"sport" json:"sport"`
	BetType              string    `db:"bet_type" json:"bet_type"`
	ConfidenceLevel      string    `db:"confidence_level" json:"confidence_level"`
	Timestamp            time.Time `db:"verified_at" json:"timestamp"`
}

// Hit returns 1 for a winning outcome and 0 otherwise
func (o HistoricalOutcome) Hit() float64 {
	if o.ActualOutcome {
		return 1
	}
	return 0
}

// Validate rejects rows that cannot be graded
func (o HistoricalOutcome) Validate() error {
	if o.PredictedProbability < 0 || o.PredictedProbability > 1 {
		return fmt.Errorf("%w: predicted probability %.4f outside [0, 1]", ErrInvalidOutcome, o.PredictedProbability)
	}
	if !o.Engine.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidOutcome, ErrUnknownEngine)
	}
	return nil
}

// OutcomeFilter narrows a verified outcome query. Empty fields match everything.
type OutcomeFilter struct {
	Engine  EngineID
	Sport   string
	BetType string
	Since   time.Time
	Limit   int
}

// Matches reports whether the outcome passes the filter
func (f OutcomeFilter) Matches(o HistoricalOutcome) bool {
	if f.Engine != "" && o.Engine != f.Engine {
		return false
	}
	if f.Sport != "" && o.Sport != f.Sport {
		return false
	}
	if f.BetType != "" && o.BetType != f.BetType {
		return false
	}
	if !f.Since.IsZero() && o.Timestamp.Before(f.Since) {
		return false
	}
	return true
}
