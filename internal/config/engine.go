package config

import (
	"github.com/yourusername/parlay-engine/internal/blend"
	"github.com/yourusername/parlay-engine/internal/calibration"
	"github.com/yourusername/parlay-engine/internal/ensemble"
	"github.com/yourusername/parlay-engine/internal/kelly"
	"github.com/yourusername/parlay-engine/internal/models"
	"github.com/yourusername/parlay-engine/internal/signals"
)

// EnginePolicy returns the default ensemble policy with configured weight overrides applied
func (c *Config) EnginePolicy() (ensemble.Policy, error) {
	overrides := make(map[models.EngineID]float64, len(c.Engine.Weights))
	for raw, weight := range c.Engine.Weights {
		engine, err := models.ParseEngineID(raw)
		if err != nil {
			return ensemble.Policy{}, err
		}
		overrides[engine] = weight
	}
	policy := ensemble.DefaultPolicy().WithWeightOverrides(overrides)
	if err := policy.Validate(); err != nil {
		return ensemble.Policy{}, err
	}
	return policy, nil
}

// ThresholdTable returns the default signal thresholds with configured overrides applied.
// An override without a scale keeps the default scale.
func (c *Config) ThresholdTable() (signals.ThresholdTable, error) {
	table := signals.DefaultThresholds()
	for raw, override := range c.Engine.Thresholds {
		engine, err := models.ParseEngineID(raw)
		if err != nil {
			return nil, err
		}
		th := table[engine]
		th.AgreeAt = override.AgreeAt
		th.DisagreeAt = override.DisagreeAt
		th.Inverted = override.Inverted
		if override.Scale > 0 {
			th.Scale = override.Scale
		}
		table[engine] = th
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// BlendWeights returns the configured blend weights
func (c *Config) BlendWeights() blend.Weights {
	return blend.Weights{
		Book:        c.Blend.BookWeight,
		AI:          c.Blend.AIWeight,
		Correlation: c.Blend.CorrelationWeight,
	}
}

// KellyPolicy returns the staking policy with the configured minimum bankroll
func (c *Config) KellyPolicy() kelly.Policy {
	policy := kelly.DefaultPolicy()
	policy.MinBankroll = c.Kelly.MinBankroll
	return policy
}

// CalibrationPolicy returns the calibration policy with configured overrides
func (c *Config) CalibrationPolicy() calibration.Config {
	cfg := calibration.DefaultConfig()
	if c.Calibration.BucketWidth > 0 {
		cfg.BucketWidth = c.Calibration.BucketWidth
	}
	cfg.MinFactorSamples = c.Calibration.MinFactorSamples
	return cfg
}
