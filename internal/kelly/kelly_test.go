package kelly

import (
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/parlay-engine/internal/models"
)

func newTestOptimizer(t *testing.T) *Optimizer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	o, err := NewOptimizer(DefaultPolicy(), logger)
	require.NoError(t, err)
	return o
}

func input(p float64, american int, mult Multiplier, maxPct float64) Input {
	return Input{
		WinProbability:  p,
		AmericanOdds:    american,
		Bankroll:        decimal.NewFromInt(1000),
		KellyMultiplier: mult,
		MaxBetPercent:   maxPct,
	}
}

func TestRecommendPlusOneFifty(t *testing.T) {
	o := newTestOptimizer(t)

	tests := []struct {
		name     string
		mult     Multiplier
		maxPct   float64
		adjusted float64
		stake    string
		risk     RiskLevel
		capped   bool
	}{
		{"full", FullKelly, 0.25, 1.0 / 6.0, "166.66", RiskReckless, false},
		{"half", HalfKelly, 0.25, 1.0 / 12.0, "83.33", RiskAggressive, false},
		{"quarter", QuarterKelly, 0.25, 1.0 / 24.0, "41.66", RiskModerate, false},
		{"capped", FullKelly, 0.05, 0.05, "50", RiskAggressive, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := o.Recommend(input(0.5, 150, tt.mult, tt.maxPct))
			require.True(t, result.IsValid, result.Errors)

			assert.InDelta(t, 2.5, result.DecimalOdds, 1e-9)
			assert.InDelta(t, 25.0, result.Edge, 1e-9)
			assert.InDelta(t, 0.1667, result.FullKellyFraction, 1e-4)
			assert.InDelta(t, tt.adjusted, result.AdjustedKellyFraction, 1e-9)
			assert.True(t, decimal.RequireFromString(tt.stake).Equal(result.RecommendedStake),
				"expected %s, got %s", tt.stake, result.RecommendedStake)
			assert.Equal(t, tt.risk, result.RiskLevel)
			assert.Equal(t, tt.capped, result.Capped)
			if tt.capped {
				assert.Contains(t, result.Warnings, WarnCapped)
			} else {
				assert.NotContains(t, result.Warnings, WarnCapped)
			}
			assert.NotContains(t, result.Warnings, WarnNegativeEV)
		})
	}
}

func TestRecklessWarningFollowsPolicy(t *testing.T) {
	assert.Equal(t, "Stake exceeds 10% of bankroll", DefaultPolicy().RecklessWarning())

	policy := DefaultPolicy()
	policy.AggressiveBelow = 0.075
	o, err := NewOptimizer(policy, nil)
	require.NoError(t, err)

	result := o.Recommend(input(0.5, 150, HalfKelly, 0.25))
	require.True(t, result.IsValid, result.Errors)
	assert.Equal(t, RiskReckless, result.RiskLevel)
	assert.Contains(t, result.Warnings, "Stake exceeds 7.5% of bankroll")

	result = newTestOptimizer(t).Recommend(input(0.5, 150, HalfKelly, 0.25))
	assert.Equal(t, RiskAggressive, result.RiskLevel)
	assert.NotContains(t, result.Warnings, DefaultPolicy().RecklessWarning())
}

func TestRecommendNegativeEdge(t *testing.T) {
	o := newTestOptimizer(t)
	result := o.Recommend(input(0.4, -110, HalfKelly, 0.05))

	require.True(t, result.IsValid)
	assert.InDelta(t, 1.9091, result.DecimalOdds, 1e-4)
	assert.Less(t, result.Edge, 0.0)
	assert.Less(t, result.FullKellyFraction, 0.0)
	assert.Equal(t, 0.0, result.AdjustedKellyFraction)
	assert.True(t, result.RecommendedStake.IsZero())
	assert.Equal(t, RiskNone, result.RiskLevel)
	assert.Contains(t, result.Warnings, WarnNegativeEV)
	assert.Contains(t, result.Warnings, WarnNoEdge)
}

func TestRecommendBreakEven(t *testing.T) {
	o := newTestOptimizer(t)
	result := o.Recommend(input(0.5, 100, FullKelly, 0.1))

	require.True(t, result.IsValid)
	assert.Equal(t, 0.0, result.Edge)
	assert.Equal(t, 0.0, result.FullKellyFraction)
	assert.True(t, result.RecommendedStake.IsZero())
	assert.Contains(t, result.Warnings, WarnNegativeEV)
	assert.NotContains(t, result.Warnings, WarnNoEdge)
}

func TestRecommendDecimalOdds(t *testing.T) {
	o := newTestOptimizer(t)
	in := input(0.2, 0, FullKelly, 0.1)
	in.DecimalOdds = 6.0

	result := o.Recommend(in)
	require.True(t, result.IsValid)
	assert.InDelta(t, 20.0, result.Edge, 1e-9)
	assert.InDelta(t, 0.04, result.FullKellyFraction, 1e-9)
	assert.InDelta(t, 40.0, result.RecommendedStake.InexactFloat64(), 0.01)
}

func TestValidateItemizesErrors(t *testing.T) {
	o := newTestOptimizer(t)
	in := Input{
		WinProbability:  1,
		AmericanOdds:    0,
		Bankroll:        decimal.NewFromInt(5),
		KellyMultiplier: 0.3,
		MaxBetPercent:   0,
	}

	result := o.Recommend(in)
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 5)
	assert.True(t, result.RecommendedStake.IsZero())
	assert.Empty(t, result.Warnings)

	in = input(0.5, 150, HalfKelly, 0.05)
	assert.Empty(t, o.Validate(in))
	in.MaxBetPercent = 5
	assert.Len(t, o.Validate(in), 1)
}

func TestStakeNeverNegativeNorAboveCap(t *testing.T) {
	o := newTestOptimizer(t)
	bankroll := decimal.NewFromInt(1000)

	for p := 0.05; p < 0.96; p += 0.05 {
		for _, american := range []int{-500, -200, -110, 100, 150, 300, 1200} {
			for _, mult := range []Multiplier{FullKelly, HalfKelly, QuarterKelly} {
				for _, maxPct := range []float64{0.01, 0.05, 0.25, 1} {
					result := o.Recommend(input(p, american, mult, maxPct))
					require.True(t, result.IsValid)

					assert.False(t, result.RecommendedStake.IsNegative())
					limit := bankroll.Mul(decimal.NewFromFloat(maxPct))
					assert.True(t, result.RecommendedStake.LessThanOrEqual(limit),
						"p=%.2f odds=%d stake=%s limit=%s", p, american, result.RecommendedStake, limit)

					d := result.DecimalOdds
					assert.InDelta(t, (p*d-1)*100, result.Edge, 1e-9)
					assert.InDelta(t, (p*(d-1)-(1-p))/(d-1), result.FullKellyFraction, 1e-9)
				}
			}
		}
	}
}

func TestRiskFor(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, RiskNone, p.RiskFor(0))
	assert.Equal(t, RiskConservative, p.RiskFor(0.0199))
	assert.Equal(t, RiskModerate, p.RiskFor(0.02))
	assert.Equal(t, RiskAggressive, p.RiskFor(0.05))
	assert.Equal(t, RiskReckless, p.RiskFor(0.10))
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())

	p := DefaultPolicy()
	p.ModerateBelow = 0.01
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.WildlyOverMultiple = 1
	assert.Error(t, p.Validate())
}

func TestCompareStake(t *testing.T) {
	o := newTestOptimizer(t)
	result := o.Recommend(input(0.5, 150, HalfKelly, 0.25))
	require.True(t, decimal.RequireFromString("83.33").Equal(result.RecommendedStake))

	tests := []struct {
		user       string
		assessment Assessment
	}{
		{"83.33", AssessmentOptimal},
		{"90", AssessmentOptimal},
		{"50", AssessmentUnderBet},
		{"150", AssessmentOverBet},
		{"300", AssessmentWildlyOver},
	}
	for _, tt := range tests {
		cmp, err := o.CompareStake(decimal.RequireFromString(tt.user), result)
		require.NoError(t, err)
		assert.Equal(t, tt.assessment, cmp.Assessment, "user stake %s", tt.user)
		assert.NotEmpty(t, cmp.Message)
	}

	cmp, err := o.CompareStake(decimal.NewFromInt(50), result)
	require.NoError(t, err)
	assert.InDelta(t, -40.0, cmp.PercentDifference, 0.01)
}

func TestCompareStakeWithoutRecommendation(t *testing.T) {
	o := newTestOptimizer(t)
	result := o.Recommend(input(0.4, -110, FullKelly, 0.05))

	cmp, err := o.CompareStake(decimal.NewFromInt(10), result)
	require.NoError(t, err)
	assert.Equal(t, AssessmentWildlyOver, cmp.Assessment)
	assert.Equal(t, 0.0, cmp.PercentDifference)

	cmp, err = o.CompareStake(decimal.Zero, result)
	require.NoError(t, err)
	assert.Equal(t, AssessmentOptimal, cmp.Assessment)

	_, err = o.CompareStake(decimal.NewFromInt(10), Result{})
	assert.ErrorIs(t, err, ErrInvalidResult)

	_, err = o.CompareStake(decimal.NewFromInt(-1), result)
	assert.Error(t, err)
}

func TestStakeInUnits(t *testing.T) {
	units, err := StakeInUnits(decimal.RequireFromString("83.33"), decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.Equal(t, "3.33", units.StringFixed(2))

	_, err = StakeInUnits(decimal.NewFromInt(10), decimal.Zero)
	assert.Error(t, err)
}

func TestInputFromSettings(t *testing.T) {
	settings := models.BankrollSettings{
		UserID:          "u1",
		BankrollAmount:  decimal.NewFromInt(500),
		MaxBetPercent:   0.05,
		DefaultUnitSize: decimal.NewFromInt(10),
		KellyMultiplier: 0.25,
	}
	in := InputFromSettings(settings, 0.55, -110)
	assert.Equal(t, QuarterKelly, in.KellyMultiplier)
	assert.True(t, in.Bankroll.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 0.05, in.MaxBetPercent)
}

func TestParseMultiplier(t *testing.T) {
	m, err := ParseMultiplier("half")
	require.NoError(t, err)
	assert.Equal(t, HalfKelly, m)

	_, err = ParseMultiplier("double")
	assert.Error(t, err)
}
