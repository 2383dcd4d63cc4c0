package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankrollSettings is a user's persisted bankroll and risk configuration
type BankrollSettings struct {
	UserID          string          `db:"user_id" json:"user_id" validate:"required"`
	BankrollAmount  decimal.Decimal `db:"bankroll_amount" json:"bankroll_amount"`
	MaxBetPercent   float64         `db:"max_bet_percent" json:"max_bet_percent" validate:"gt=0,lte=1"`
	DefaultUnitSize decimal.Decimal `db:"default_unit_size" json:"default_unit_size"`
	KellyMultiplier float64         `db:"kelly_multiplier" json:"kelly_multiplier" validate:"gt=0,lte=1"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// BankrollFloat returns the bankroll as float64 for the numeric routines
func (b BankrollSettings) BankrollFloat() float64 {
	return b.BankrollAmount.InexactFloat64()
}
