package calibration

import (
	"fmt"
)

const (
	minCorrectedProbability = 0.01
	maxCorrectedProbability = 0.99
)

// Corrector adjusts displayed probabilities by historical calibration factors
type Corrector struct {
	factors    map[factorKey]Factor
	cfg        Config
	minSamples int
}

// NewCorrector indexes factors with at least cfg.MinFactorSamples samples
func NewCorrector(factors []Factor, cfg Config) *Corrector {
	indexed := make(map[factorKey]Factor, len(factors))
	for _, f := range factors {
		if f.SampleSize < cfg.MinFactorSamples {
			continue
		}
		indexed[factorKey{sport: f.Sport, betType: f.BetType, level: f.ConfidenceLevel}] = f
	}
	return &Corrector{factors: indexed, cfg: cfg, minSamples: cfg.MinFactorSamples}
}

// Lookup returns the factor for a probability's confidence level within a sport and bet type
func (c *Corrector) Lookup(p float64, sport, betType string) (Factor, bool) {
	if c == nil {
		return Factor{}, false
	}
	f, ok := c.factors[factorKey{sport: sport, betType: betType, level: c.cfg.ConfidenceLevelFor(p)}]
	return f, ok
}

// Adjust multiplies p by its calibration factor and clamps the result.
// Without a qualifying factor p is returned unchanged with applied=false.
func (c *Corrector) Adjust(p float64, sport, betType string) (adjusted float64, factor float64, applied bool) {
	f, ok := c.Lookup(p, sport, betType)
	if !ok || !isValidProbability(p) {
		return p, 1, false
	}
	return clamp(p*f.CalibrationFactor, minCorrectedProbability, maxCorrectedProbability), f.CalibrationFactor, true
}

// Len returns the number of usable factors
func (c *Corrector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.factors)
}

// String implements fmt.Stringer
func (c *Corrector) String() string {
	return fmt.Sprintf("Corrector{factors=%d, min_samples=%d}", c.Len(), c.minSamples)
}
