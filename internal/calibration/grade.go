package calibration

import (
	"fmt"
	"math"
)

// GradeNA is shown when there is nothing to grade
const GradeNA = "N/A"

// Grade is a letter grade with its display color
type Grade struct {
	Letter string `json:"letter"`
	Color  string `json:"color"`
	Label  string `json:"label"`
}

// GradeBand assigns Letter to any Brier score <= MaxBrier not claimed by an earlier band
type GradeBand struct {
	MaxBrier float64 `json:"max_brier"`
	Letter   string  `json:"letter"`
	Color    string  `json:"color"`
	Label    string  `json:"label"`
}

// GradeScale is an ordered set of bands plus the grade for anything worse.
// Because every band is an upper bound checked in order there are no gaps.
type GradeScale struct {
	Bands    []GradeBand `json:"bands"`
	Fallback Grade       `json:"fallback"`
	NA       Grade       `json:"na"`
}

// DefaultGradeScale returns the production grade bands
func DefaultGradeScale() GradeScale {
	return GradeScale{
		Bands: []GradeBand{
			{MaxBrier: 0.15, Letter: "A", Color: "#22c55e", Label: "Excellent"},
			{MaxBrier: 0.20, Letter: "B", Color: "#84cc16", Label: "Good"},
			{MaxBrier: 0.25, Letter: "C", Color: "#eab308", Label: "Fair"},
			{MaxBrier: 0.32, Letter: "D", Color: "#f97316", Label: "Poor"},
		},
		Fallback: Grade{Letter: "F", Color: "#ef4444", Label: "Failing"},
		NA:       Grade{Letter: GradeNA, Color: "#9ca3af", Label: "Not enough data"},
	}
}

// Validate requires strictly increasing limits and non-empty letters
func (g GradeScale) Validate() error {
	if len(g.Bands) == 0 {
		return fmt.Errorf("grade scale needs at least one band")
	}
	prev := math.Inf(-1)
	for _, band := range g.Bands {
		if band.Letter == "" {
			return fmt.Errorf("grade band with limit %.4f has no letter", band.MaxBrier)
		}
		if band.MaxBrier <= prev {
			return fmt.Errorf("grade limits must be strictly increasing (%.4f after %.4f)", band.MaxBrier, prev)
		}
		prev = band.MaxBrier
	}
	if g.Fallback.Letter == "" || g.NA.Letter == "" {
		return fmt.Errorf("grade scale needs fallback and N/A grades")
	}
	return nil
}

// For grades a Brier score. Zero samples grade as N/A.
func (g GradeScale) For(brier float64, samples int) Grade {
	if samples <= 0 || math.IsNaN(brier) {
		return g.NA
	}
	for _, band := range g.Bands {
		if brier <= band.MaxBrier {
			return Grade{Letter: band.Letter, Color: band.Color, Label: band.Label}
		}
	}
	return g.Fallback
}
