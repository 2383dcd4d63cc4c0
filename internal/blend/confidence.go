package blend

import (
	"fmt"
	"math"
)

// FactorStatus grades one confidence factor against its maximum
type FactorStatus string

const (
	FactorGood     FactorStatus = "good"
	FactorWarning  FactorStatus = "warning"
	FactorCritical FactorStatus = "critical"
)

// ConfidenceLevel buckets the total confidence score
type ConfidenceLevel string

const (
	ConfidenceHigh      ConfidenceLevel = "high"
	ConfidenceMedium    ConfidenceLevel = "medium"
	ConfidenceLow       ConfidenceLevel = "low"
	ConfidenceUncertain ConfidenceLevel = "uncertain"
)

// ConfidenceFactor is one additive contribution to the confidence score
type ConfidenceFactor struct {
	Name        string       `json:"name"`
	Score       float64      `json:"score"`
	MaxScore    float64      `json:"max_score"`
	Status      FactorStatus `json:"status"`
	Description string       `json:"description"`
}

// ConfidencePolicy holds the scoring constants for the confidence score
type ConfidencePolicy struct {
	CoverageMax   float64                 `json:"coverage_max"`
	WarningsMax   float64                 `json:"warnings_max"`
	LegCountMax   float64                 `json:"leg_count_max"`
	FreeLegs      int                     `json:"free_legs"`
	PerLegPenalty float64                 `json:"per_leg_penalty"`
	Deductions    map[WarningKind]float64 `json:"deductions"`
	GoodAt        float64                 `json:"good_at"`
	WarningAt     float64                 `json:"warning_at"`
	HighAt        float64                 `json:"high_at"`
	MediumAt      float64                 `json:"medium_at"`
	LowAt         float64                 `json:"low_at"`
}

// DefaultConfidencePolicy returns the production confidence scoring
func DefaultConfidencePolicy() ConfidencePolicy {
	return ConfidencePolicy{
		CoverageMax:   40,
		WarningsMax:   30,
		LegCountMax:   30,
		FreeLegs:      2,
		PerLegPenalty: 4,
		Deductions: map[WarningKind]float64{
			WarningSameGame:            8,
			WarningSamePlayer:          12,
			WarningSameTeam:            5,
			WarningConflictingOutcomes: 20,
			WarningOther:               5,
		},
		GoodAt:    0.70,
		WarningAt: 0.40,
		HighAt:    75,
		MediumAt:  50,
		LowAt:     25,
	}
}

// Validate checks the policy is consistent
func (p ConfidencePolicy) Validate() error {
	if p.CoverageMax < 0 || p.WarningsMax < 0 || p.LegCountMax < 0 || p.PerLegPenalty < 0 {
		return fmt.Errorf("confidence maxima and penalties cannot be negative")
	}
	if p.FreeLegs < 0 {
		return fmt.Errorf("free legs cannot be negative")
	}
	for kind, d := range p.Deductions {
		if d < 0 {
			return fmt.Errorf("deduction for %s cannot be negative", kind)
		}
	}
	if !(0 < p.WarningAt && p.WarningAt < p.GoodAt && p.GoodAt <= 1) {
		return fmt.Errorf("factor status cutoffs must satisfy 0 < warning < good <= 1")
	}
	if !(0 < p.LowAt && p.LowAt < p.MediumAt && p.MediumAt < p.HighAt) {
		return fmt.Errorf("confidence level cutoffs must satisfy 0 < low < medium < high")
	}
	return nil
}

// Level maps a total score to a confidence level
func (p ConfidencePolicy) Level(score float64) ConfidenceLevel {
	switch {
	case score >= p.HighAt:
		return ConfidenceHigh
	case score >= p.MediumAt:
		return ConfidenceMedium
	case score >= p.LowAt:
		return ConfidenceLow
	default:
		return ConfidenceUncertain
	}
}

func (p ConfidencePolicy) status(score, max float64) FactorStatus {
	if max <= 0 {
		return FactorGood
	}
	ratio := score / max
	switch {
	case ratio >= p.GoodAt:
		return FactorGood
	case ratio >= p.WarningAt:
		return FactorWarning
	default:
		return FactorCritical
	}
}

func (p ConfidencePolicy) deduction(kind WarningKind) float64 {
	if d, ok := p.Deductions[kind]; ok {
		return d
	}
	return p.Deductions[WarningOther]
}

func (p ConfidencePolicy) coverageFactor(legs, aiLegs, correlationLegs int) ConfidenceFactor {
	coverage := 0.0
	if legs > 0 {
		coverage = (float64(aiLegs) + float64(correlationLegs)) / (2 * float64(legs))
	}
	score := p.CoverageMax * coverage
	return ConfidenceFactor{
		Name:        "data_coverage",
		Score:       score,
		MaxScore:    p.CoverageMax,
		Status:      p.status(score, p.CoverageMax),
		Description: fmt.Sprintf("%d/%d legs with model data, %d/%d with correlation data", aiLegs, legs, correlationLegs, legs),
	}
}

func (p ConfidencePolicy) warningsFactor(warnings []Warning) ConfidenceFactor {
	penalty := 0.0
	for _, w := range warnings {
		penalty += p.deduction(w.Kind)
	}
	score := math.Max(0, p.WarningsMax-penalty)
	description := "no correlation warnings"
	if len(warnings) > 0 {
		description = fmt.Sprintf("%d correlation warning(s), -%.0f", len(warnings), penalty)
	}
	return ConfidenceFactor{
		Name:        "correlation_warnings",
		Score:       score,
		MaxScore:    p.WarningsMax,
		Status:      p.status(score, p.WarningsMax),
		Description: description,
	}
}

func (p ConfidencePolicy) legCountFactor(legs int) ConfidenceFactor {
	extra := legs - p.FreeLegs
	if extra < 0 {
		extra = 0
	}
	score := math.Max(0, p.LegCountMax-float64(extra)*p.PerLegPenalty)
	return ConfidenceFactor{
		Name:        "leg_count",
		Score:       score,
		MaxScore:    p.LegCountMax,
		Status:      p.status(score, p.LegCountMax),
		Description: fmt.Sprintf("%d leg parlay", legs),
	}
}
