package ensemble

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/parlay-engine/internal/models"
)

// LegResult is the consensus for a single leg
type LegResult struct {
	LegIndex         int             `json:"leg_index"`
	Consensus        Classification  `json:"consensus"`
	ConsensusScore   float64         `json:"consensus_score"`
	Signals          []models.Signal `json:"signals"`
	AvailableSignals int             `json:"available_signals"`
	AgreeCount       int             `json:"agree_count"`
	DisagreeCount    int             `json:"disagree_count"`
	NoData           bool            `json:"no_data"`
}

// ParlayResult is the consensus across all legs of a parlay
type ParlayResult struct {
	Legs             []LegResult    `json:"legs"`
	OverallConsensus Classification `json:"overall_consensus"`
	OverallScore     float64        `json:"overall_score"`
	ParlayRisk       RiskTier       `json:"parlay_risk"`
	RiskPoints       int            `json:"risk_points"`
	WeakestLeg       int            `json:"weakest_leg"`
	StrongestLeg     int            `json:"strongest_leg"`
	NoDataLegs       int            `json:"no_data_legs"`
	Recommendation   string         `json:"recommendation"`
}

// Aggregator computes weighted consensus scores. It holds only immutable
// configuration and is safe for concurrent use.
type Aggregator struct {
	policy  Policy
	weights map[models.EngineID]float64
	logger  *logrus.Logger
}

// NewAggregator creates an aggregator for the given policy
func NewAggregator(policy Policy, logger *logrus.Logger) (*Aggregator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ensemble policy: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Aggregator{
		policy:  policy,
		weights: policy.weightMap(),
		logger:  logger,
	}, nil
}

// Policy returns the aggregator's policy
func (a *Aggregator) Policy() Policy {
	return a.policy
}

// EvaluateLeg scores one leg. no_data signals are excluded from both the
// numerator and the weight total; a leg with nothing available scores 0.
func (a *Aggregator) EvaluateLeg(index int, signals []models.Signal) LegResult {
	result := LegResult{
		LegIndex: index,
		Signals:  append([]models.Signal(nil), signals...),
	}

	weighted := 0.0
	totalWeight := 0.0
	for _, s := range signals {
		if !s.HasData() {
			continue
		}
		w, ok := a.weights[s.Engine]
		if !ok {
			a.logger.WithField("engine", s.Engine).Warn("Ignoring signal from unweighted engine")
			continue
		}
		result.AvailableSignals++
		switch s.Status {
		case models.SignalAgree:
			result.AgreeCount++
		case models.SignalDisagree:
			result.DisagreeCount++
		}

		confidence := 1.0
		if c, ok := s.Confidence.Get(); ok && !math.IsNaN(c) {
			confidence = clamp(c, 0, 1)
		}
		weighted += s.Status.Direction() * confidence * w
		totalWeight += w
	}

	if result.AvailableSignals == 0 {
		result.NoData = true
	}
	if totalWeight > 0 {
		result.ConsensusScore = clamp(weighted/totalWeight*MaxScore, -MaxScore, MaxScore)
	}
	result.Consensus = a.policy.Thresholds.Classify(result.ConsensusScore)

	a.logger.WithFields(logrus.Fields{
		"leg_index":         index,
		"consensus":         result.Consensus,
		"consensus_score":   result.ConsensusScore,
		"available_signals": result.AvailableSignals,
	}).Debug("Leg consensus computed")

	return result
}

// EvaluateParlay scores every leg and aggregates. signalsPerLeg is indexed by leg;
// the returned leg results keep that order.
func (a *Aggregator) EvaluateParlay(signalsPerLeg [][]models.Signal) ParlayResult {
	legs := make([]LegResult, len(signalsPerLeg))
	for i, sigs := range signalsPerLeg {
		legs[i] = a.EvaluateLeg(i, sigs)
	}
	return a.Summarize(legs)
}

// Summarize aggregates already-evaluated leg results
func (a *Aggregator) Summarize(legs []LegResult) ParlayResult {
	result := ParlayResult{
		Legs:         legs,
		WeakestLeg:   -1,
		StrongestLeg: -1,
	}

	if len(legs) == 0 {
		result.OverallConsensus = Neutral
		result.ParlayRisk = RiskLow
		result.Recommendation = a.policy.Recommendations[Neutral]
		return result
	}

	sum := 0.0
	strongFades, leanFades := 0, 0
	for i, leg := range legs {
		sum += leg.ConsensusScore
		if result.WeakestLeg < 0 || leg.ConsensusScore < legs[result.WeakestLeg].ConsensusScore {
			result.WeakestLeg = i
		}
		if result.StrongestLeg < 0 || leg.ConsensusScore > legs[result.StrongestLeg].ConsensusScore {
			result.StrongestLeg = i
		}
		switch leg.Consensus {
		case StrongFade:
			strongFades++
		case LeanFade:
			leanFades++
		}
		if leg.NoData {
			result.NoDataLegs++
		}
	}

	result.OverallScore = sum / float64(len(legs))
	result.OverallConsensus = a.policy.Thresholds.Classify(result.OverallScore)
	result.RiskPoints = strongFades*a.policy.Risk.StrongFadePoints +
		leanFades*a.policy.Risk.LeanFadePoints +
		result.NoDataLegs*a.policy.Risk.NoDataPoints
	result.ParlayRisk = a.policy.Risk.Tier(result.RiskPoints)
	result.Recommendation = a.policy.Recommendations[result.OverallConsensus]

	return result
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
