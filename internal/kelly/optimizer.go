package kelly

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/parlay-engine/internal/models"
	"github.com/yourusername/parlay-engine/internal/odds"
)

// Warning messages
const (
	WarnNegativeEV = "Negative expected value: skip this bet"
	WarnNoEdge     = "No edge exists: full Kelly fraction is negative"
	WarnCapped     = "Kelly recommends more than your cap allows"
)

// Input describes one staking decision. DecimalOdds is used only when
// AmericanOdds is 0, so parlay prices can be sized directly.
type Input struct {
	WinProbability  float64         `json:"win_probability"`
	AmericanOdds    int             `json:"american_odds"`
	DecimalOdds     float64         `json:"decimal_odds"`
	Bankroll        decimal.Decimal `json:"bankroll"`
	KellyMultiplier Multiplier      `json:"kelly_multiplier"`
	MaxBetPercent   float64         `json:"max_bet_percent"`
}

// InputFromSettings builds an input from a user's persisted bankroll settings
func InputFromSettings(settings models.BankrollSettings, winProbability float64, americanOdds int) Input {
	return Input{
		WinProbability:  winProbability,
		AmericanOdds:    americanOdds,
		Bankroll:        settings.BankrollAmount,
		KellyMultiplier: Multiplier(settings.KellyMultiplier),
		MaxBetPercent:   settings.MaxBetPercent,
	}
}

// Result is a stake recommendation. When IsValid is false only Errors is set.
type Result struct {
	IsValid               bool            `json:"is_valid"`
	Errors                []string        `json:"errors,omitempty"`
	DecimalOdds           float64         `json:"decimal_odds"`
	Bankroll              decimal.Decimal `json:"bankroll"`
	RecommendedStake      decimal.Decimal `json:"recommended_stake"`
	ExpectedProfit        decimal.Decimal `json:"expected_profit"`
	FullKellyFraction     float64         `json:"full_kelly_fraction"`
	AdjustedKellyFraction float64         `json:"adjusted_kelly_fraction"`
	Edge                  float64         `json:"edge"`
	RiskLevel             RiskLevel       `json:"risk_level"`
	Capped                bool            `json:"capped"`
	Warnings              []string        `json:"warnings,omitempty"`
}

// Optimizer computes Kelly stakes. It holds no mutable state.
type Optimizer struct {
	policy Policy
	logger *logrus.Logger
}

// NewOptimizer creates an optimizer
func NewOptimizer(policy Policy, logger *logrus.Logger) (*Optimizer, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kelly policy: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Optimizer{policy: policy, logger: logger}, nil
}

// Policy returns the optimizer's policy
func (o *Optimizer) Policy() Policy {
	return o.policy
}

// Validate returns every problem with the input. An empty list means the input is usable.
func (o *Optimizer) Validate(in Input) []string {
	var errs []string

	if math.IsNaN(in.WinProbability) || in.WinProbability <= 0 || in.WinProbability >= 1 {
		errs = append(errs, "Win probability must be between 0 and 1 (exclusive)")
	}
	if _, err := decimalOdds(in); err != nil {
		errs = append(errs, "Odds must be valid: American odds cannot be 0 and decimal odds must exceed 1")
	}
	if in.Bankroll.LessThan(decimal.NewFromFloat(o.policy.MinBankroll)) {
		errs = append(errs, fmt.Sprintf("Bankroll must be at least %.2f", o.policy.MinBankroll))
	}
	if !in.KellyMultiplier.Valid() {
		errs = append(errs, "Kelly multiplier must be full (1.0), half (0.5) or quarter (0.25)")
	}
	if math.IsNaN(in.MaxBetPercent) || in.MaxBetPercent <= 0 || in.MaxBetPercent > 1 {
		errs = append(errs, "Max bet percent must be a fraction between 0 and 1")
	}

	return errs
}

// Recommend validates the input and computes the stake
func (o *Optimizer) Recommend(in Input) Result {
	if errs := o.Validate(in); len(errs) > 0 {
		o.logger.WithFields(logrus.Fields{
			"errors": errs,
		}).Debug("Kelly input rejected")
		return Result{IsValid: false, Errors: errs}
	}

	d, _ := decimalOdds(in)
	p := in.WinProbability
	b := d - 1.0
	q := 1.0 - p

	// f = (bp - q) / b
	fullKelly := (b*p - q) / b
	edge := (p*d - 1.0) * 100

	scaled := fullKelly * float64(in.KellyMultiplier)
	adjusted := scaled
	capped := false
	if scaled > in.MaxBetPercent {
		adjusted = in.MaxBetPercent
		capped = true
	}
	if adjusted < 0 {
		adjusted = 0
	}

	stake := in.Bankroll.Mul(decimal.NewFromFloat(adjusted)).RoundFloor(2)
	if stake.IsNegative() {
		stake = decimal.Zero
	}

	result := Result{
		IsValid:               true,
		DecimalOdds:           d,
		Bankroll:              in.Bankroll,
		RecommendedStake:      stake,
		ExpectedProfit:        stake.Mul(decimal.NewFromFloat(p*d - 1)).Round(2),
		FullKellyFraction:     fullKelly,
		AdjustedKellyFraction: adjusted,
		Edge:                  edge,
		RiskLevel:             o.policy.RiskFor(adjusted),
		Capped:                capped,
	}

	if edge <= 0 {
		result.Warnings = append(result.Warnings, WarnNegativeEV)
	}
	if fullKelly < 0 {
		result.Warnings = append(result.Warnings, WarnNoEdge)
	}
	if capped {
		result.Warnings = append(result.Warnings, WarnCapped)
	}
	if result.RiskLevel == RiskReckless {
		result.Warnings = append(result.Warnings, o.policy.RecklessWarning())
	}

	o.logger.WithFields(logrus.Fields{
		"win_probability": p,
		"decimal_odds":    d,
		"kelly_fraction":  fullKelly,
		"adjusted_kelly":  adjusted,
		"multiplier":      in.KellyMultiplier.String(),
		"stake":           stake.String(),
		"risk_level":      result.RiskLevel,
		"capped":          capped,
	}).Debug("Kelly stake calculated")

	return result
}

func decimalOdds(in Input) (float64, error) {
	if in.AmericanOdds != 0 {
		return odds.AmericanToDecimal(in.AmericanOdds)
	}
	if in.DecimalOdds > 1 && !math.IsInf(in.DecimalOdds, 0) {
		return in.DecimalOdds, nil
	}
	return 0, fmt.Errorf("%w: no usable odds", odds.ErrInvalidOdds)
}
