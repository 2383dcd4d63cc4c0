// Package calibration scores how well historical probability predictions matched outcomes.
package calibration

import (
	"fmt"
)

// Default statistical constants
const (
	DefaultBucketWidth = 0.1
	// WilsonZ95 is the z-score for a 95% Wilson interval
	WilsonZ95 = 1.96
	// UninformativeBrier is the Brier score of always predicting 0.5
	UninformativeBrier = 0.25
	logLossEpsilon     = 1e-15
)

// Confidence levels used to group calibration factors
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Config is the immutable calibration policy
type Config struct {
	BucketWidth        float64    `json:"bucket_width"`
	Z                  float64    `json:"z"`
	Grades             GradeScale `json:"grades"`
	HighConfidenceAt   float64    `json:"high_confidence_at"`
	MediumConfidenceAt float64    `json:"medium_confidence_at"`
	WellCalibratedLow  float64    `json:"well_calibrated_low"`
	WellCalibratedHigh float64    `json:"well_calibrated_high"`
	MinFactorSamples   int        `json:"min_factor_samples"`
}

// DefaultConfig returns the production calibration policy
func DefaultConfig() Config {
	return Config{
		BucketWidth:        DefaultBucketWidth,
		Z:                  WilsonZ95,
		Grades:             DefaultGradeScale(),
		HighConfidenceAt:   0.70,
		MediumConfidenceAt: 0.55,
		WellCalibratedLow:  0.95,
		WellCalibratedHigh: 1.05,
		MinFactorSamples:   20,
	}
}

// Validate checks the configuration is internally consistent
func (c Config) Validate() error {
	if c.BucketWidth <= 0 || c.BucketWidth > 1 {
		return fmt.Errorf("bucket width must be in (0, 1], got %.4f", c.BucketWidth)
	}
	if c.Z <= 0 {
		return fmt.Errorf("z must be positive, got %.4f", c.Z)
	}
	if err := c.Grades.Validate(); err != nil {
		return err
	}
	if !(0 < c.MediumConfidenceAt && c.MediumConfidenceAt < c.HighConfidenceAt && c.HighConfidenceAt <= 1) {
		return fmt.Errorf("confidence cutoffs must satisfy 0 < medium < high <= 1")
	}
	if !(0 < c.WellCalibratedLow && c.WellCalibratedLow <= 1 && 1 <= c.WellCalibratedHigh) {
		return fmt.Errorf("well calibrated band must contain 1.0")
	}
	if c.MinFactorSamples < 0 {
		return fmt.Errorf("min factor samples cannot be negative")
	}
	return nil
}

// ConfidenceLevelFor derives a confidence level from a predicted probability
func (c Config) ConfidenceLevelFor(p float64) string {
	switch {
	case p >= c.HighConfidenceAt:
		return ConfidenceHigh
	case p >= c.MediumConfidenceAt:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
