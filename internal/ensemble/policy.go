// Package ensemble combines per-engine signals into leg and parlay consensus judgements.
package ensemble

import (
	"fmt"

	"github.com/yourusername/parlay-engine/internal/models"
)

// Classification is the consensus bucket for a score
type Classification string

const (
	StrongPick Classification = "strong_pick"
	LeanPick   Classification = "lean_pick"
	Neutral    Classification = "neutral"
	LeanFade   Classification = "lean_fade"
	StrongFade Classification = "strong_fade"
)

// RiskTier is the parlay-level risk rating
type RiskTier string

const (
	RiskLow     RiskTier = "low"
	RiskMedium  RiskTier = "medium"
	RiskHigh    RiskTier = "high"
	RiskExtreme RiskTier = "extreme"
)

// MaxScore bounds consensus scores to [-MaxScore, MaxScore]
const MaxScore = 100.0

// EngineWeight is how much one engine contributes to a leg's consensus
type EngineWeight struct {
	Engine      models.EngineID `json:"engine"`
	Weight      float64         `json:"weight"`
	DisplayName string          `json:"display_name"`
}

// Thresholds are the score cutoffs between classifications
type Thresholds struct {
	StrongPick float64 `json:"strong_pick"`
	LeanPick   float64 `json:"lean_pick"`
	LeanFade   float64 `json:"lean_fade"`
	StrongFade float64 `json:"strong_fade"`
}

// Classify maps a score to its classification:
// strong_pick >= StrongPick, lean_pick in [LeanPick, StrongPick),
// neutral in (LeanFade, LeanPick), lean_fade in (StrongFade, LeanFade],
// strong_fade <= StrongFade.
func (t Thresholds) Classify(score float64) Classification {
	switch {
	case score >= t.StrongPick:
		return StrongPick
	case score >= t.LeanPick:
		return LeanPick
	case score > t.LeanFade:
		return Neutral
	case score > t.StrongFade:
		return LeanFade
	default:
		return StrongFade
	}
}

// Validate enforces strictly decreasing cutoffs
func (t Thresholds) Validate() error {
	if !(t.StrongPick > t.LeanPick && t.LeanPick > t.LeanFade && t.LeanFade > t.StrongFade) {
		return fmt.Errorf("classification thresholds must be strictly decreasing: %.1f > %.1f > %.1f > %.1f",
			t.StrongPick, t.LeanPick, t.LeanFade, t.StrongFade)
	}
	if t.StrongPick > MaxScore || t.StrongFade < -MaxScore {
		return fmt.Errorf("classification thresholds must lie within [-%.0f, %.0f]", MaxScore, MaxScore)
	}
	return nil
}

// RiskPolicy converts fades and missing data into a risk tier.
// Points only ever add, so more fades or more missing data never lower the tier.
type RiskPolicy struct {
	StrongFadePoints int `json:"strong_fade_points"`
	LeanFadePoints   int `json:"lean_fade_points"`
	NoDataPoints     int `json:"no_data_points"`
	MediumAt         int `json:"medium_at"`
	HighAt           int `json:"high_at"`
	ExtremeAt        int `json:"extreme_at"`
}

// Tier maps risk points to a tier
func (r RiskPolicy) Tier(points int) RiskTier {
	switch {
	case points >= r.ExtremeAt:
		return RiskExtreme
	case points >= r.HighAt:
		return RiskHigh
	case points >= r.MediumAt:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Validate checks the tier cutoffs are increasing and points non-negative
func (r RiskPolicy) Validate() error {
	if r.StrongFadePoints < 0 || r.LeanFadePoints < 0 || r.NoDataPoints < 0 {
		return fmt.Errorf("risk points must be non-negative")
	}
	if r.StrongFadePoints < r.LeanFadePoints {
		return fmt.Errorf("strong fades must weigh at least as much as lean fades")
	}
	if !(0 < r.MediumAt && r.MediumAt < r.HighAt && r.HighAt < r.ExtremeAt) {
		return fmt.Errorf("risk tiers must be increasing: 0 < %d < %d < %d", r.MediumAt, r.HighAt, r.ExtremeAt)
	}
	return nil
}

// Policy is the immutable aggregation configuration
type Policy struct {
	Weights         []EngineWeight
	Thresholds      Thresholds
	Risk            RiskPolicy
	Recommendations map[Classification]string
}

// DefaultWeights returns the production engine weight table
func DefaultWeights() []EngineWeight {
	raw := map[models.EngineID]float64{
		models.EngineSharp:    1.5,
		models.EngineHitRate:  1.2,
		models.EngineJuiced:   0.8,
		models.EngineTrap:     1.0,
		models.EngineUpset:    0.7,
		models.EngineFatigue:  0.6,
		models.EngineBestBets: 1.0,
		models.EngineCoaching: 0.5,
		models.EngineUsage:    0.6,
	}
	out := make([]EngineWeight, 0, len(raw))
	for _, engine := range models.AllEngines() {
		out = append(out, EngineWeight{Engine: engine, Weight: raw[engine], DisplayName: engine.DisplayName()})
	}
	return out
}

// DefaultThresholds returns the production classification cutoffs
func DefaultThresholds() Thresholds {
	return Thresholds{StrongPick: 50, LeanPick: 15, LeanFade: -15, StrongFade: -50}
}

// DefaultRiskPolicy returns the production risk policy
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		StrongFadePoints: 2,
		LeanFadePoints:   1,
		NoDataPoints:     1,
		MediumAt:         1,
		HighAt:           3,
		ExtremeAt:        5,
	}
}

// DefaultRecommendations returns the recommendation text per overall consensus
func DefaultRecommendations() map[Classification]string {
	return map[Classification]string{
		StrongPick: "Engines strongly agree. This parlay has broad support.",
		LeanPick:   "Engines lean in favor. Consider a reduced stake.",
		Neutral:    "Engines are split. No clear edge either way.",
		LeanFade:   "Engines lean against this parlay. Review the weakest leg.",
		StrongFade: "Engines strongly oppose this parlay. Consider passing.",
	}
}

// DefaultPolicy returns the complete production policy
func DefaultPolicy() Policy {
	return Policy{
		Weights:         DefaultWeights(),
		Thresholds:      DefaultThresholds(),
		Risk:            DefaultRiskPolicy(),
		Recommendations: DefaultRecommendations(),
	}
}

// WithWeightOverrides returns a copy of the policy with the given engine weights replaced
func (p Policy) WithWeightOverrides(overrides map[models.EngineID]float64) Policy {
	weights := make([]EngineWeight, len(p.Weights))
	copy(weights, p.Weights)
	for i, w := range weights {
		if v, ok := overrides[w.Engine]; ok {
			weights[i].Weight = v
		}
	}
	p.Weights = weights
	return p
}

// Validate checks weights, thresholds, risk policy and templates
func (p Policy) Validate() error {
	seen := make(map[models.EngineID]bool, len(p.Weights))
	for _, w := range p.Weights {
		if !w.Engine.Valid() {
			return fmt.Errorf("%w: %s", models.ErrUnknownEngine, w.Engine)
		}
		if w.Weight < 0 {
			return fmt.Errorf("engine %s has negative weight %.2f", w.Engine, w.Weight)
		}
		if seen[w.Engine] {
			return fmt.Errorf("engine %s weighted twice", w.Engine)
		}
		seen[w.Engine] = true
	}
	for _, engine := range models.AllEngines() {
		if !seen[engine] {
			return fmt.Errorf("engine %s has no weight", engine)
		}
	}
	if err := p.Thresholds.Validate(); err != nil {
		return err
	}
	if err := p.Risk.Validate(); err != nil {
		return err
	}
	for _, c := range []Classification{StrongPick, LeanPick, Neutral, LeanFade, StrongFade} {
		if p.Recommendations[c] == "" {
			return fmt.Errorf("missing recommendation for %s", c)
		}
	}
	return nil
}

func (p Policy) weightMap() map[models.EngineID]float64 {
	m := make(map[models.EngineID]float64, len(p.Weights))
	for _, w := range p.Weights {
		m[w.Engine] = w.Weight
	}
	return m
}
