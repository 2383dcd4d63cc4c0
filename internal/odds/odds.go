// Package odds converts between American odds, decimal odds and implied probability.
package odds

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOdds is returned for odds that cannot be priced
var ErrInvalidOdds = errors.New("invalid odds")

// AmericanToDecimal converts American odds to decimal odds.
// +150 -> 2.5, -110 -> 1.909...
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: american odds cannot be 0", ErrInvalidOdds)
	}
	if american > 0 {
		return 1 + float64(american)/100.0, nil
	}
	return 1 + 100.0/math.Abs(float64(american)), nil
}

// DecimalToAmerican converts decimal odds back to (rounded) American odds
func DecimalToAmerican(decimalOdds float64) (int, error) {
	if decimalOdds <= 1 {
		return 0, fmt.Errorf("%w: decimal odds must exceed 1, got %.4f", ErrInvalidOdds, decimalOdds)
	}
	if decimalOdds >= 2 {
		return int(math.Round((decimalOdds - 1) * 100)), nil
	}
	return int(math.Round(-100 / (decimalOdds - 1))), nil
}

// ImpliedProbability returns 1/decimalOdds, the book's break-even probability
func ImpliedProbability(decimalOdds float64) float64 {
	if decimalOdds <= 0 {
		return 0
	}
	return 1.0 / decimalOdds
}

// AmericanToImplied converts American odds straight to implied probability
func AmericanToImplied(american int) (float64, error) {
	d, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return ImpliedProbability(d), nil
}

// ParlayDecimal multiplies leg decimal odds into the combined parlay price
func ParlayDecimal(legs []float64) float64 {
	if len(legs) == 0 {
		return 0
	}
	product := 1.0
	for _, d := range legs {
		product *= d
	}
	return product
}

// RemoveVig2 converts two-way decimal odds to fair probabilities
// by stripping the bookmaker's overround.
func RemoveVig2(a, b float64) (float64, float64) {
	if a <= 0 || b <= 0 {
		return 0, 0
	}
	rawA := 1.0 / a
	rawB := 1.0 / b
	total := rawA + rawB
	return rawA / total, rawB / total
}

// Overround returns the book margin of a two-way market as a fraction (0.0476 for -110/-110)
func Overround(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return 1.0/a + 1.0/b - 1.0
}
