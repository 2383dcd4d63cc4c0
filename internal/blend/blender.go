package blend

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/parlay-engine/internal/models"
	"github.com/yourusername/parlay-engine/internal/odds"
)

const (
	minCalibratedProbability = 0.01
	maxCalibratedProbability = 0.99
)

// LegInput is the per-leg data the blender needs. ImpliedProbability is used
// only when AmericanOdds is 0.
type LegInput struct {
	AmericanOdds       int                      `json:"american_odds"`
	ImpliedProbability models.Optional[float64] `json:"implied_probability"`
	AIAdjusted         models.Optional[float64] `json:"ai_adjusted"`
	HasCorrelation     bool                     `json:"has_correlation"`
	GameID             string                   `json:"game_id"`
	Team               string                   `json:"team"`
	Player             string                   `json:"player"`
	BetType            string                   `json:"bet_type"`
	Side               string                   `json:"side"`
}

// Input is everything needed to blend one parlay
type Input struct {
	Legs                []LegInput               `json:"legs"`
	CorrelationAdjusted models.Optional[float64] `json:"correlation_adjusted"`
	Warnings            []Warning                `json:"warnings"`
	CalibrationFactor   models.Optional[float64] `json:"calibration_factor"`
}

// Result is the blended probability with its confidence breakdown
type Result struct {
	BookImplied         float64                  `json:"book_implied"`
	BookDecimalOdds     float64                  `json:"book_decimal_odds"`
	AIAdjusted          models.Optional[float64] `json:"ai_adjusted"`
	AILegAverage        models.Optional[float64] `json:"ai_leg_average"`
	CorrelationAdjusted models.Optional[float64] `json:"correlation_adjusted"`
	FinalProbability    float64                  `json:"final_probability"`
	CalibratedFinal     models.Optional[float64] `json:"calibrated_final"`
	HasAIData           bool                     `json:"has_ai_data"`
	HasCorrelationData  bool                     `json:"has_correlation_data"`
	AppliedWeights      Weights                  `json:"applied_weights"`
	ConfidenceScore     float64                  `json:"confidence_score"`
	ConfidenceLevel     ConfidenceLevel          `json:"confidence_level"`
	ConfidenceFactors   []ConfidenceFactor       `json:"confidence_factors"`
	Warnings            []Warning                `json:"warnings"`
}

// Blender computes blended parlay probabilities. It is safe for concurrent use.
type Blender struct {
	weights    Weights
	confidence ConfidencePolicy
	logger     *logrus.Logger
}

// NewBlender creates a blender
func NewBlender(weights Weights, confidence ConfidencePolicy, logger *logrus.Logger) (*Blender, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blend weights: %w", err)
	}
	if err := confidence.Validate(); err != nil {
		return nil, fmt.Errorf("invalid confidence policy: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Blender{weights: weights, confidence: confidence, logger: logger}, nil
}

// Weights returns the configured (unnormalized) weights
func (b *Blender) Weights() Weights {
	return b.weights
}

// Blend combines the available probability sources for a parlay. Every
// source is a whole-parlay probability: the AI term multiplies each leg's AI
// probability, falling back to the leg's book probability where it has none.
func (b *Blender) Blend(in Input) (Result, error) {
	if len(in.Legs) == 0 {
		return Result{}, models.ErrEmptyParlay
	}

	bookImplied := 1.0
	bookDecimal := 1.0
	aiProduct := 1.0
	aiSum, aiLegs, correlationLegs := 0.0, 0, 0

	for i, leg := range in.Legs {
		p, err := legImplied(leg)
		if err != nil {
			return Result{}, fmt.Errorf("leg %d: %w", i, err)
		}
		bookImplied *= p
		bookDecimal *= 1 / p

		if ai, ok := leg.AIAdjusted.Get(); ok && isProbability(ai) {
			aiProduct *= ai
			aiSum += ai
			aiLegs++
		} else {
			aiProduct *= p
		}
		if leg.HasCorrelation {
			correlationLegs++
		}
	}

	result := Result{
		BookImplied:     bookImplied,
		BookDecimalOdds: bookDecimal,
	}

	if aiLegs > 0 {
		result.HasAIData = true
		result.AIAdjusted = models.Some(aiProduct)
		result.AILegAverage = models.Some(aiSum / float64(aiLegs))
	}
	if corr, ok := in.CorrelationAdjusted.Get(); ok && isProbability(corr) {
		result.HasCorrelationData = true
		result.CorrelationAdjusted = models.Some(corr)
	} else {
		correlationLegs = 0
	}

	result.AppliedWeights = b.weights.renormalize(result.HasAIData, result.HasCorrelationData)
	final := result.AppliedWeights.Book * bookImplied
	final += result.AppliedWeights.AI * result.AIAdjusted.OrElse(0)
	final += result.AppliedWeights.Correlation * result.CorrelationAdjusted.OrElse(0)
	result.FinalProbability = clamp(final, 0, 1)

	if factor, ok := in.CalibrationFactor.Get(); ok && factor > 0 && !math.IsInf(factor, 0) {
		result.CalibratedFinal = models.Some(clamp(result.FinalProbability*factor, minCalibratedProbability, maxCalibratedProbability))
	}

	result.Warnings = mergeWarnings(in.Warnings, DetectWarnings(in.Legs))
	result.ConfidenceFactors = []ConfidenceFactor{
		b.confidence.coverageFactor(len(in.Legs), aiLegs, correlationLegs),
		b.confidence.warningsFactor(result.Warnings),
		b.confidence.legCountFactor(len(in.Legs)),
	}
	for _, f := range result.ConfidenceFactors {
		result.ConfidenceScore += f.Score
	}
	result.ConfidenceScore = clamp(result.ConfidenceScore, 0, 100)
	result.ConfidenceLevel = b.confidence.Level(result.ConfidenceScore)

	if !result.HasAIData || !result.HasCorrelationData {
		b.logger.WithFields(logrus.Fields{
			"legs":               len(in.Legs),
			"has_ai":             result.HasAIData,
			"has_correlation":    result.HasCorrelationData,
			"book_weight":        result.AppliedWeights.Book,
			"ai_weight":          result.AppliedWeights.AI,
			"correlation_weight": result.AppliedWeights.Correlation,
		}).Debug("Blended with degraded sources")
	}

	return result, nil
}

func legImplied(leg LegInput) (float64, error) {
	if leg.AmericanOdds != 0 {
		return odds.AmericanToImplied(leg.AmericanOdds)
	}
	if p, ok := leg.ImpliedProbability.Get(); ok && p > 0 && p <= 1 {
		return p, nil
	}
	return 0, fmt.Errorf("%w: leg has neither odds nor implied probability", odds.ErrInvalidOdds)
}

func isProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
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
