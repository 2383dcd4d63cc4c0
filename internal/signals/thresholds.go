// Package signals converts sparse leg analysis records into per-engine directional signals.
package signals

import (
	"fmt"

	"github.com/yourusername/parlay-engine/internal/models"
)

// Threshold converts a raw engine score into agree/disagree/neutral.
//
// For a normal engine a value >= AgreeAt agrees and a value <= DisagreeAt disagrees.
// For an inverted engine (higher is worse for the bet) a value >= DisagreeAt disagrees
// and a value <= AgreeAt agrees. Values in between are the neutral gray zone.
type Threshold struct {
	AgreeAt    float64 `mapstructure:"agree_at" json:"agree_at"`
	DisagreeAt float64 `mapstructure:"disagree_at" json:"disagree_at"`
	Inverted   bool    `mapstructure:"inverted" json:"inverted"`
	// Scale is the distance past a cutoff at which confidence saturates at 1
	Scale float64 `mapstructure:"scale" json:"scale"`
}

// Validate checks that the agree and disagree zones do not overlap
func (t Threshold) Validate() error {
	if t.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %.2f", t.Scale)
	}
	if t.Inverted {
		if t.AgreeAt >= t.DisagreeAt {
			return fmt.Errorf("inverted threshold requires agree_at < disagree_at (%.2f >= %.2f)", t.AgreeAt, t.DisagreeAt)
		}
		return nil
	}
	if t.DisagreeAt >= t.AgreeAt {
		return fmt.Errorf("threshold requires disagree_at < agree_at (%.2f >= %.2f)", t.DisagreeAt, t.AgreeAt)
	}
	return nil
}

// Classify maps a raw value to a status and a confidence in [0.5, 1] for
// directional verdicts. Neutral values carry no confidence.
func (t Threshold) Classify(v float64) (models.SignalStatus, models.Optional[float64]) {
	var distance float64
	var status models.SignalStatus

	switch {
	case !t.Inverted && v >= t.AgreeAt:
		status, distance = models.SignalAgree, v-t.AgreeAt
	case !t.Inverted && v <= t.DisagreeAt:
		status, distance = models.SignalDisagree, t.DisagreeAt-v
	case t.Inverted && v >= t.DisagreeAt:
		status, distance = models.SignalDisagree, v-t.DisagreeAt
	case t.Inverted && v <= t.AgreeAt:
		status, distance = models.SignalAgree, t.AgreeAt-v
	default:
		return models.SignalNeutral, models.None[float64]()
	}

	return status, models.Some(clamp(0.5+0.5*distance/t.Scale, 0.5, 1))
}

// ThresholdTable holds one threshold per numeric engine. The sharp engine is
// recommendation-based and has no entry.
type ThresholdTable map[models.EngineID]Threshold

// DefaultThresholds returns the production cutoffs
func DefaultThresholds() ThresholdTable {
	return ThresholdTable{
		models.EngineHitRate:  {AgreeAt: 58, DisagreeAt: 45, Scale: 20},
		models.EngineJuiced:   {AgreeAt: 60, DisagreeAt: 40, Scale: 25},
		models.EngineTrap:     {AgreeAt: 30, DisagreeAt: 60, Inverted: true, Scale: 25},
		models.EngineUpset:    {AgreeAt: 65, DisagreeAt: 35, Scale: 25},
		models.EngineFatigue:  {AgreeAt: 30, DisagreeAt: 70, Inverted: true, Scale: 20},
		models.EngineBestBets: {AgreeAt: 70, DisagreeAt: 40, Scale: 20},
		models.EngineCoaching: {AgreeAt: 60, DisagreeAt: 40, Scale: 25},
		models.EngineUsage:    {AgreeAt: 5, DisagreeAt: -5, Scale: 15},
	}
}

// Validate checks every numeric engine has a consistent threshold
func (tt ThresholdTable) Validate() error {
	for _, engine := range models.AllEngines() {
		if engine == models.EngineSharp {
			continue
		}
		th, ok := tt[engine]
		if !ok {
			return fmt.Errorf("missing threshold for engine %s", engine)
		}
		if err := th.Validate(); err != nil {
			return fmt.Errorf("engine %s: %w", engine, err)
		}
	}
	for engine := range tt {
		if !engine.Valid() {
			return fmt.Errorf("%w: %s", models.ErrUnknownEngine, engine)
		}
	}
	return nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
