package kelly

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Assessment describes a user's stake relative to the Kelly recommendation
type Assessment string

const (
	AssessmentOptimal    Assessment = "optimal"
	AssessmentUnderBet   Assessment = "under_betting"
	AssessmentOverBet    Assessment = "over_betting"
	AssessmentWildlyOver Assessment = "wildly_over"
)

// ErrInvalidResult is returned when comparing against a rejected recommendation
var ErrInvalidResult = errors.New("kelly result is not valid")

// StakeComparison compares a user's stake with the recommendation
type StakeComparison struct {
	UserStake         decimal.Decimal `json:"user_stake"`
	RecommendedStake  decimal.Decimal `json:"recommended_stake"`
	PercentDifference float64         `json:"percent_difference"`
	Assessment        Assessment      `json:"assessment"`
	Message           string          `json:"message"`
}

// CompareStake assesses userStake against result.RecommendedStake. When Kelly
// recommends nothing, any positive stake is wildly over and PercentDifference is 0.
func (o *Optimizer) CompareStake(userStake decimal.Decimal, result Result) (StakeComparison, error) {
	if !result.IsValid {
		return StakeComparison{}, ErrInvalidResult
	}
	if userStake.IsNegative() {
		return StakeComparison{}, fmt.Errorf("user stake cannot be negative: %s", userStake)
	}

	cmp := StakeComparison{
		UserStake:        userStake,
		RecommendedStake: result.RecommendedStake,
	}

	if !result.RecommendedStake.IsPositive() {
		if userStake.IsPositive() {
			cmp.Assessment = AssessmentWildlyOver
			cmp.Message = "Kelly recommends no bet here; any stake is over-betting"
		} else {
			cmp.Assessment = AssessmentOptimal
			cmp.Message = "No bet, matching the Kelly recommendation"
		}
		return cmp, nil
	}

	cmp.PercentDifference = userStake.Sub(result.RecommendedStake).
		Div(result.RecommendedStake).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()

	ratio := userStake.Div(result.RecommendedStake).InexactFloat64()
	switch {
	case math.Abs(cmp.PercentDifference) <= o.policy.OptimalTolerance:
		cmp.Assessment = AssessmentOptimal
		cmp.Message = "Stake is in line with Kelly"
	case ratio > o.policy.WildlyOverMultiple:
		cmp.Assessment = AssessmentWildlyOver
		cmp.Message = fmt.Sprintf("Stake is %.1fx the Kelly recommendation: high risk of ruin", ratio)
	case cmp.PercentDifference > 0:
		cmp.Assessment = AssessmentOverBet
		cmp.Message = fmt.Sprintf("Stake is %.0f%% above Kelly", cmp.PercentDifference)
	default:
		cmp.Assessment = AssessmentUnderBet
		cmp.Message = fmt.Sprintf("Stake is %.0f%% below Kelly", -cmp.PercentDifference)
	}

	return cmp, nil
}

// StakeInUnits expresses a stake in betting units, rounded to 2 places
func StakeInUnits(stake, unitSize decimal.Decimal) (decimal.Decimal, error) {
	if !unitSize.IsPositive() {
		return decimal.Zero, fmt.Errorf("unit size must be positive, got %s", unitSize)
	}
	return stake.Div(unitSize).Round(2), nil
}
