// Package repository reads verified outcomes and bankroll settings from PostgreSQL.
package repository

import (
	"fmt"

	"github.com/yourusername/parlay-engine/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Outcome  OutcomeRepository
	Bankroll BankrollRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return newRepositories(db.Querier()), nil
}

func newRepositories(q database.Querier) *Repositories {
	return &Repositories{
		Outcome:  NewPostgresOutcomeRepository(q),
		Bankroll: NewPostgresBankrollRepository(q),
	}
}
