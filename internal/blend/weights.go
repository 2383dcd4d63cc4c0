// Package blend combines book, model and correlation probabilities into one
// parlay estimate and scores how much that estimate can be trusted.
package blend

import (
	"fmt"
	"math"
)

// Weights are the relative contributions of each probability source.
// They need not sum to 1; Blend renormalizes over the sources present.
type Weights struct {
	Book        float64 `mapstructure:"book" json:"book" validate:"gte=0"`
	AI          float64 `mapstructure:"ai" json:"ai" validate:"gte=0"`
	Correlation float64 `mapstructure:"correlation" json:"correlation" validate:"gte=0"`
}

// DefaultWeights returns the production blend. These are fixed constants and
// are not yet fitted to historical accuracy.
func DefaultWeights() Weights {
	return Weights{Book: 0.10, AI: 0.40, Correlation: 0.50}
}

// Validate requires non-negative finite weights with a positive sum
func (w Weights) Validate() error {
	for name, v := range map[string]float64{"book": w.Book, "ai": w.AI, "correlation": w.Correlation} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s weight must be a non-negative number, got %v", name, v)
		}
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("blend weights must have a positive sum")
	}
	return nil
}

// Sum returns the total weight
func (w Weights) Sum() float64 {
	return w.Book + w.AI + w.Correlation
}

// renormalize zeroes absent sources and scales the rest to sum to 1.
// If every present source has zero weight the book carries the estimate alone.
func (w Weights) renormalize(hasAI, hasCorrelation bool) Weights {
	out := Weights{Book: w.Book}
	if hasAI {
		out.AI = w.AI
	}
	if hasCorrelation {
		out.Correlation = w.Correlation
	}
	total := out.Sum()
	if total <= 0 {
		return Weights{Book: 1}
	}
	return Weights{
		Book:        out.Book / total,
		AI:          out.AI / total,
		Correlation: out.Correlation / total,
	}
}
