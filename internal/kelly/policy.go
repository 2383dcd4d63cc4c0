// Package kelly sizes stakes with the Kelly criterion under fractional
// multipliers and a bankroll cap.
package kelly

import (
	"fmt"
)

// Multiplier scales the full Kelly fraction
type Multiplier float64

const (
	FullKelly    Multiplier = 1.0
	HalfKelly    Multiplier = 0.5
	QuarterKelly Multiplier = 0.25
)

// Valid reports whether m is one of the supported multipliers
func (m Multiplier) Valid() bool {
	switch m {
	case FullKelly, HalfKelly, QuarterKelly:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (m Multiplier) String() string {
	switch m {
	case FullKelly:
		return "full"
	case HalfKelly:
		return "half"
	case QuarterKelly:
		return "quarter"
	default:
		return fmt.Sprintf("%.2fx", float64(m))
	}
}

// ParseMultiplier accepts full/half/quarter or the numeric form
func ParseMultiplier(raw string) (Multiplier, error) {
	switch raw {
	case "full", "1", "1.0":
		return FullKelly, nil
	case "half", "0.5":
		return HalfKelly, nil
	case "quarter", "0.25":
		return QuarterKelly, nil
	default:
		return 0, fmt.Errorf("unsupported kelly multiplier %q (use full, half or quarter)", raw)
	}
}

// RiskLevel classifies the bankroll fraction being staked
type RiskLevel string

const (
	RiskNone         RiskLevel = "none"
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
	RiskReckless     RiskLevel = "reckless"
)

// Policy holds the optimizer's constants. Risk cutoffs are bankroll
// fractions; OptimalTolerance is the +/- percent band CompareStake treats as
// optimal and WildlyOverMultiple flags stakes above that multiple of Kelly.
type Policy struct {
	MinBankroll        float64 `mapstructure:"min_bankroll" json:"min_bankroll"`
	ConservativeBelow  float64 `mapstructure:"conservative_below" json:"conservative_below"`
	ModerateBelow      float64 `mapstructure:"moderate_below" json:"moderate_below"`
	AggressiveBelow    float64 `mapstructure:"aggressive_below" json:"aggressive_below"`
	OptimalTolerance   float64 `mapstructure:"optimal_tolerance" json:"optimal_tolerance"`
	WildlyOverMultiple float64 `mapstructure:"wildly_over_multiple" json:"wildly_over_multiple"`
}

// DefaultPolicy returns the production staking policy
func DefaultPolicy() Policy {
	return Policy{
		MinBankroll:        10,
		ConservativeBelow:  0.02,
		ModerateBelow:      0.05,
		AggressiveBelow:    0.10,
		OptimalTolerance:   10,
		WildlyOverMultiple: 3,
	}
}

// Validate checks the risk cutoffs are monotonic and the comparison bands sane
func (p Policy) Validate() error {
	if p.MinBankroll < 0 {
		return fmt.Errorf("min bankroll cannot be negative")
	}
	if !(0 < p.ConservativeBelow && p.ConservativeBelow < p.ModerateBelow && p.ModerateBelow < p.AggressiveBelow && p.AggressiveBelow <= 1) {
		return fmt.Errorf("risk cutoffs must satisfy 0 < conservative < moderate < aggressive <= 1")
	}
	if p.OptimalTolerance < 0 {
		return fmt.Errorf("optimal tolerance cannot be negative")
	}
	if p.WildlyOverMultiple <= 1 {
		return fmt.Errorf("wildly over multiple must exceed 1")
	}
	return nil
}

// RiskFor classifies an adjusted Kelly fraction
func (p Policy) RiskFor(fraction float64) RiskLevel {
	switch {
	case fraction <= 0:
		return RiskNone
	case fraction < p.ConservativeBelow:
		return RiskConservative
	case fraction < p.ModerateBelow:
		return RiskModerate
	case fraction < p.AggressiveBelow:
		return RiskAggressive
	default:
		return RiskReckless
	}
}

// RecklessWarning is the warning attached to stakes at or above AggressiveBelow
func (p Policy) RecklessWarning() string {
	return fmt.Sprintf("Stake exceeds %.4g%% of bankroll", p.AggressiveBelow*100)
}
