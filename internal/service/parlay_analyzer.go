// Package service orchestrates the parlay engine: signal extraction, consensus,
// probability blending, calibration and stake sizing.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/parlay-engine/internal/blend"
	"github.com/yourusername/parlay-engine/internal/calibration"
	"github.com/yourusername/parlay-engine/internal/config"
	"github.com/yourusername/parlay-engine/internal/correlation"
	"github.com/yourusername/parlay-engine/internal/ensemble"
	"github.com/yourusername/parlay-engine/internal/kelly"
	"github.com/yourusername/parlay-engine/internal/logger"
	"github.com/yourusername/parlay-engine/internal/metrics"
	"github.com/yourusername/parlay-engine/internal/models"
	"github.com/yourusername/parlay-engine/internal/odds"
	"github.com/yourusername/parlay-engine/internal/repository"
	"github.com/yourusername/parlay-engine/internal/signals"
)

const (
	minNudgedProbability = 0.01
	maxNudgedProbability = 0.99
	parlayBetType        = "parlay"
)

// CorrelationEstimator prices dependencies between legs
type CorrelationEstimator interface {
	Estimate(ctx context.Context, req correlation.Request) (*correlation.Estimate, error)
}

// CorrectorSource supplies the current calibration corrector
type CorrectorSource interface {
	Corrector(ctx context.Context) (*calibration.Corrector, error)
}

// AnalyzerDeps are the collaborators of a ParlayAnalyzer. Correlation, Calibration
// and Bankrolls are optional; without them the analysis degrades instead of failing.
type AnalyzerDeps struct {
	Validator   *config.CustomValidator
	Extractor   *signals.Extractor
	Aggregator  *ensemble.Aggregator
	Blender     *blend.Blender
	Optimizer   *kelly.Optimizer
	Correlation CorrelationEstimator
	Calibration CorrectorSource
	Bankrolls   repository.BankrollRepository
}

// AnalyzeRequest is a parlay to analyze for a user
type AnalyzeRequest struct {
	Parlay    models.Parlay                    `json:"parlay"`
	UserID    string                           `json:"user_id,omitempty"`
	UserStake models.Optional[decimal.Decimal] `json:"user_stake"`
}

// Analysis is the complete engine output for one parlay
type Analysis struct {
	ID         uuid.UUID               `json:"id"`
	ParlayID   uuid.UUID               `json:"parlay_id"`
	Consensus  ensemble.ParlayResult   `json:"consensus"`
	Blend      blend.Result            `json:"blend"`
	Stake      kelly.Result            `json:"stake"`
	StakeUnits decimal.Decimal         `json:"stake_units"`
	Comparison *kelly.StakeComparison  `json:"comparison,omitempty"`
	Bankroll   models.BankrollSettings `json:"bankroll"`
	Degraded   []string                `json:"degraded,omitempty"`
	AnalyzedAt time.Time               `json:"analyzed_at"`
}

// ParlayAnalyzer runs the full pipeline for one parlay. It is safe for concurrent use.
type ParlayAnalyzer struct {
	deps         AnalyzerDeps
	aiNudge      float64
	defaults     config.KellyConfig
	engineLogger *logger.EngineLogger
	logger       *logrus.Logger
}

// NewParlayAnalyzer creates a new parlay analyzer
func NewParlayAnalyzer(deps AnalyzerDeps, aiNudge float64, defaults config.KellyConfig, logger *logrus.Logger) (*ParlayAnalyzer, error) {
	if deps.Validator == nil || deps.Extractor == nil || deps.Aggregator == nil || deps.Blender == nil || deps.Optimizer == nil {
		return nil, fmt.Errorf("validator, extractor, aggregator, blender and optimizer are required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &ParlayAnalyzer{
		deps:         deps,
		aiNudge:      aiNudge,
		defaults:     defaults,
		engineLogger: engineLoggerFor(logger),
		logger:       logger,
	}, nil
}

// NewParlayAnalyzerFromConfig builds the core pipeline from configuration. Optional
// collaborators are attached to the returned deps by the caller.
func NewParlayAnalyzerFromConfig(cfg *config.Config, deps AnalyzerDeps, logger *logrus.Logger) (*ParlayAnalyzer, error) {
	thresholds, err := cfg.ThresholdTable()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.EnginePolicy()
	if err != nil {
		return nil, err
	}

	if deps.Validator == nil {
		deps.Validator = config.NewValidator()
	}
	if deps.Extractor, err = signals.NewExtractor(thresholds, logger); err != nil {
		return nil, err
	}
	if deps.Aggregator, err = ensemble.NewAggregator(policy, logger); err != nil {
		return nil, err
	}
	if deps.Blender, err = blend.NewBlender(cfg.BlendWeights(), blend.DefaultConfidencePolicy(), logger); err != nil {
		return nil, err
	}
	if deps.Optimizer, err = kelly.NewOptimizer(cfg.KellyPolicy(), logger); err != nil {
		return nil, err
	}

	return NewParlayAnalyzer(deps, cfg.Engine.AINudge, cfg.Kelly, logger)
}

// Analyze runs consensus, blending, calibration and staking for a parlay
func (a *ParlayAnalyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	start := time.Now()

	if len(req.Parlay.Legs) == 0 {
		return nil, models.ErrEmptyParlay
	}
	if err := a.deps.Validator.Struct(req.Parlay); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidParlay, err)
	}

	analysis := &Analysis{
		ID:         uuid.New(),
		ParlayID:   req.Parlay.ID,
		AnalyzedAt: start.UTC(),
	}
	analysisID := analysis.ID.String()
	legs := req.Parlay.Legs

	analysis.Consensus = a.deps.Aggregator.EvaluateParlay(a.deps.Extractor.ExtractAll(legs))
	for _, leg := range analysis.Consensus.Legs {
		a.engineLogger.LogLegConsensus(analysisID, leg.LegIndex, string(leg.Consensus), leg.ConsensusScore, leg.AvailableSignals)
	}

	blendInput, err := a.blendInput(legs, analysis.Consensus)
	if err != nil {
		return nil, err
	}

	if a.deps.Correlation != nil {
		if err := a.applyCorrelation(ctx, legs, &blendInput); err != nil {
			a.logger.WithError(err).WithField("analysis_id", analysisID).Warn("Correlation model unavailable, blending without it")
			analysis.Degraded = append(analysis.Degraded, "correlation")
		}
	}

	analysis.Blend, err = a.deps.Blender.Blend(blendInput)
	if err != nil {
		return nil, fmt.Errorf("failed to blend probabilities: %w", err)
	}

	if a.deps.Calibration != nil {
		corrector, err := a.deps.Calibration.Corrector(ctx)
		if err != nil {
			a.logger.WithError(err).WithField("analysis_id", analysisID).Warn("Calibration unavailable, showing uncalibrated probability")
			analysis.Degraded = append(analysis.Degraded, "calibration")
		} else if f, ok := corrector.Lookup(analysis.Blend.FinalProbability, commonSport(legs), betTypeOf(legs)); ok {
			blendInput.CalibrationFactor = models.Some(f.CalibrationFactor)
			if analysis.Blend, err = a.deps.Blender.Blend(blendInput); err != nil {
				return nil, fmt.Errorf("failed to blend probabilities: %w", err)
			}
		}
	}

	metrics.RecordBlend(analysis.Blend.ConfidenceScore, analysis.Blend.HasAIData, analysis.Blend.HasCorrelationData)
	a.engineLogger.LogBlend(analysisID, analysis.Blend.BookImplied, analysis.Blend.FinalProbability,
		analysis.Blend.ConfidenceScore, analysis.Blend.HasAIData, analysis.Blend.HasCorrelationData, len(analysis.Blend.Warnings))

	settings, err := a.bankroll(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	analysis.Bankroll = *settings

	if err := a.stake(analysis, req.UserStake); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordAnalysis(string(analysis.Consensus.OverallConsensus), len(legs), elapsed.Seconds())
	a.engineLogger.LogParlayEvaluation(analysisID, len(legs), string(analysis.Consensus.OverallConsensus),
		analysis.Consensus.OverallScore, string(analysis.Consensus.ParlayRisk), float64(elapsed.Microseconds())/1000)

	return analysis, nil
}

// blendInput derives per-leg AI probabilities. An explicit AI probability wins;
// otherwise the book probability is nudged by the leg's consensus score.
// Legs with no engine data carry no AI probability.
func (a *ParlayAnalyzer) blendInput(legs []models.Leg, consensus ensemble.ParlayResult) (blend.Input, error) {
	in := blend.Input{Legs: make([]blend.LegInput, len(legs))}

	for i, leg := range legs {
		implied, err := odds.AmericanToImplied(leg.AmericanOdds)
		if err != nil {
			return blend.Input{}, fmt.Errorf("leg %d: %w", i, err)
		}

		li := blend.LegInput{
			AmericanOdds:       leg.AmericanOdds,
			ImpliedProbability: models.Some(implied),
			GameID:             leg.GameID,
			Team:               leg.Team,
			Player:             leg.Player,
			BetType:            leg.BetType,
			Side:               leg.NormalizedSide(),
		}

		if p, ok := leg.Analysis.AIProbability.Get(); ok {
			li.AIAdjusted = models.Some(p)
		} else if lr := consensus.Legs[i]; !lr.NoData && a.aiNudge > 0 {
			nudged := implied * (1 + lr.ConsensusScore/ensemble.MaxScore*a.aiNudge)
			li.AIAdjusted = models.Some(clampProbability(nudged))
		}

		in.Legs[i] = li
	}

	return in, nil
}

func (a *ParlayAnalyzer) applyCorrelation(ctx context.Context, legs []models.Leg, in *blend.Input) error {
	req := correlation.Request{Legs: make([]correlation.LegRequest, len(legs)), IndependentEstimate: 1}

	for i, leg := range legs {
		p := in.Legs[i].AIAdjusted.OrElse(in.Legs[i].ImpliedProbability.OrElse(0))
		req.Legs[i] = correlation.LegRequest{
			Index:        i,
			GameID:       leg.GameID,
			Team:         leg.Team,
			Player:       leg.Player,
			BetType:      leg.BetType,
			Side:         leg.NormalizedSide(),
			AmericanOdds: leg.AmericanOdds,
			Probability:  p,
		}
		req.IndependentEstimate *= p
	}

	estimate, err := a.deps.Correlation.Estimate(ctx, req)
	if err != nil {
		return err
	}

	in.CorrelationAdjusted = estimate.AdjustedProbability
	in.Warnings = estimate.Warnings
	// Only the count of covered legs feeds the coverage factor.
	for i := 0; i < estimate.CoveredLegs && i < len(in.Legs); i++ {
		in.Legs[i].HasCorrelation = true
	}
	return nil
}

func (a *ParlayAnalyzer) bankroll(ctx context.Context, userID string) (*models.BankrollSettings, error) {
	if userID != "" && a.deps.Bankrolls != nil {
		settings, err := a.deps.Bankrolls.GetByUserID(ctx, userID)
		if err == nil {
			return settings, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to load bankroll settings: %w", err)
		}
		a.logger.WithField("user_id", userID).Debug("No bankroll settings, using defaults")
	}

	return &models.BankrollSettings{
		UserID:          userID,
		BankrollAmount:  decimal.NewFromFloat(a.defaults.DefaultBankroll),
		MaxBetPercent:   a.defaults.MaxBetPercent,
		DefaultUnitSize: decimal.NewFromFloat(a.defaults.DefaultUnitSize),
		KellyMultiplier: a.defaults.DefaultMultiplier,
	}, nil
}

func (a *ParlayAnalyzer) stake(analysis *Analysis, userStake models.Optional[decimal.Decimal]) error {
	p := analysis.Blend.CalibratedFinal.OrElse(analysis.Blend.FinalProbability)

	in := kelly.InputFromSettings(analysis.Bankroll, p, 0)
	in.DecimalOdds = analysis.Blend.BookDecimalOdds

	analysis.Stake = a.deps.Optimizer.Recommend(in)
	if !analysis.Stake.IsValid {
		a.logger.WithFields(logrus.Fields{
			"analysis_id": analysis.ID,
			"errors":      analysis.Stake.Errors,
		}).Warn("Stake recommendation rejected")
		return nil
	}

	metrics.RecordKellyRecommendation(string(analysis.Stake.RiskLevel))
	a.engineLogger.LogStakeRecommendation(analysis.ID.String(), p, analysis.Stake.DecimalOdds, analysis.Stake.Edge,
		analysis.Stake.FullKellyFraction, analysis.Stake.RecommendedStake.String(), string(analysis.Stake.RiskLevel), analysis.Stake.Capped)

	if units, err := kelly.StakeInUnits(analysis.Stake.RecommendedStake, analysis.Bankroll.DefaultUnitSize); err == nil {
		analysis.StakeUnits = units
	}

	if s, ok := userStake.Get(); ok {
		cmp, err := a.deps.Optimizer.CompareStake(s, analysis.Stake)
		if err != nil {
			return fmt.Errorf("failed to compare stake: %w", err)
		}
		analysis.Comparison = &cmp
	}

	return nil
}

// commonSport returns the legs' shared sport, or "" for a cross-sport parlay
func commonSport(legs []models.Leg) string {
	sport := legs[0].Sport
	for _, leg := range legs[1:] {
		if leg.Sport != sport {
			return ""
		}
	}
	return sport
}

func betTypeOf(legs []models.Leg) string {
	if len(legs) == 1 {
		return legs[0].BetType
	}
	return parlayBetType
}

func clampProbability(p float64) float64 {
	if p < minNudgedProbability {
		return minNudgedProbability
	}
	if p > maxNudgedProbability {
		return maxNudgedProbability
	}
	return p
}
