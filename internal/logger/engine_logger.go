package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for parlay analysis.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogLegConsensus logs the consensus for a single leg.
func (el *EngineLogger) LogLegConsensus(analysisID string, legIndex int, consensus string, score float64, availableSignals int) {
	el.WithFields(logrus.Fields{
		"analysis_id":       analysisID,
		"leg_index":         legIndex,
		"consensus":         consensus,
		"consensus_score":   score,
		"available_signals": availableSignals,
	}).Debug("Leg consensus computed")
}

// LogParlayEvaluation logs the ensemble verdict for a parlay.
func (el *EngineLogger) LogParlayEvaluation(analysisID string, legs int, consensus string, score float64, risk string, durationMs float64) {
	el.WithFields(logrus.Fields{
		"analysis_id":            analysisID,
		"legs":                   legs,
		"overall_consensus":      consensus,
		"overall_score":          score,
		"parlay_risk":            risk,
		"evaluation_duration_ms": durationMs,
	}).Info("Parlay evaluation completed")
}

// LogBlend logs the blended probability and which sources contributed.
func (el *EngineLogger) LogBlend(analysisID string, bookImplied, finalProbability, confidence float64, hasAI, hasCorrelation bool, warnings int) {
	el.WithFields(logrus.Fields{
		"analysis_id":       analysisID,
		"book_implied":      bookImplied,
		"final_probability": finalProbability,
		"confidence_score":  confidence,
		"has_ai_data":       hasAI,
		"has_correlation":   hasCorrelation,
		"warnings":          warnings,
	}).Info("Probability blend computed")
}

// LogStakeRecommendation logs a Kelly stake recommendation.
func (el *EngineLogger) LogStakeRecommendation(analysisID string, winProbability, decimalOdds, edge, kellyFraction float64, stake string, riskLevel string, capped bool) {
	el.WithFields(logrus.Fields{
		"analysis_id":     analysisID,
		"win_probability": winProbability,
		"decimal_odds":    decimalOdds,
		"edge":            edge,
		"kelly_fraction":  kellyFraction,
		"stake":           stake,
		"risk_level":      riskLevel,
		"capped":          capped,
	}).Info("Stake recommendation made")
}

// LogCalibrationReport logs a calibration report summary.
func (el *EngineLogger) LogCalibrationReport(scope string, samples int, brier, ece float64, grade string) {
	el.WithFields(logrus.Fields{
		"scope":       scope,
		"sample_size": samples,
		"brier_score": brier,
		"ece":         ece,
		"grade":       grade,
	}).Info("Calibration report generated")
}

// LogCalibrationDrift warns when an engine's calibration factor leaves the well calibrated band.
func (el *EngineLogger) LogCalibrationDrift(sport, betType, level string, factor float64, samples int, status string) {
	el.WithFields(logrus.Fields{
		"sport":              sport,
		"bet_type":           betType,
		"confidence_level":   level,
		"calibration_factor": factor,
		"sample_size":        samples,
		"status":             status,
	}).Warn("Calibration drift detected")
}
