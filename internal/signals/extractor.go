package signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/parlay-engine/internal/models"
)

const noDataReason = "no data"

var sharpPassValues = map[string]bool{
	"":        true,
	"pass":    true,
	"none":    true,
	"no_play": true,
	"neutral": true,
}

// Extractor turns leg analysis records into engine signals
type Extractor struct {
	thresholds ThresholdTable
	logger     *logrus.Logger
}

// NewExtractor creates an extractor. A nil table uses DefaultThresholds.
func NewExtractor(thresholds ThresholdTable, logger *logrus.Logger) (*Extractor, error) {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid threshold table: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Extractor{thresholds: thresholds, logger: logger}, nil
}

// Extract returns one signal per engine, in models.AllEngines order.
// Absent fields produce explicit no_data signals.
func (e *Extractor) Extract(leg models.Leg) []models.Signal {
	engines := models.AllEngines()
	out := make([]models.Signal, 0, len(engines))
	for _, engine := range engines {
		out = append(out, e.extractEngine(leg, engine))
	}
	return out
}

// ExtractAll extracts signals for every leg. The result is index-aligned with legs.
func (e *Extractor) ExtractAll(legs []models.Leg) [][]models.Signal {
	out := make([][]models.Signal, len(legs))
	for i, leg := range legs {
		out[i] = e.Extract(leg)
	}
	return out
}

func (e *Extractor) extractEngine(leg models.Leg, engine models.EngineID) models.Signal {
	if engine == models.EngineSharp {
		return e.extractSharp(leg)
	}

	field, label := numericField(leg.Analysis, engine)
	raw, ok := field.Get()
	if !ok {
		return noData(engine)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		e.logger.WithFields(logrus.Fields{
			"engine": engine,
			"leg_id": leg.ID,
		}).Warn("Discarding non-finite engine value")
		return models.Signal{Engine: engine, Status: models.SignalNoData, Reason: "invalid value"}
	}

	th := e.thresholds[engine]
	status, confidence := th.Classify(raw)
	return models.Signal{
		Engine:     engine,
		Value:      models.Some(raw),
		Confidence: confidence,
		Status:     status,
		Reason:     describe(label, raw, status, th),
	}
}

func (e *Extractor) extractSharp(leg models.Leg) models.Signal {
	rec, ok := leg.Analysis.SharpRecommendation.Get()
	if !ok {
		return noData(models.EngineSharp)
	}

	confidence := models.None[float64]()
	if c, ok := leg.Analysis.SharpConfidence.Get(); ok && !math.IsNaN(c) {
		confidence = models.Some(clamp(c/100.0, 0, 1))
	}

	rec = strings.ToLower(strings.TrimSpace(rec))
	if sharpPassValues[rec] {
		return models.Signal{
			Engine:     models.EngineSharp,
			Value:      models.Some(0.0),
			Confidence: confidence,
			Status:     models.SignalNeutral,
			Reason:     "sharp money has no position",
		}
	}

	if rec == leg.NormalizedSide() {
		return models.Signal{
			Engine:     models.EngineSharp,
			Value:      models.Some(1.0),
			Confidence: confidence,
			Status:     models.SignalAgree,
			Reason:     fmt.Sprintf("sharp money on %s", rec),
		}
	}
	return models.Signal{
		Engine:     models.EngineSharp,
		Value:      models.Some(-1.0),
		Confidence: confidence,
		Status:     models.SignalDisagree,
		Reason:     fmt.Sprintf("sharp money on %s, bet is %s", rec, leg.NormalizedSide()),
	}
}

func numericField(a models.LegAnalysis, engine models.EngineID) (models.Optional[float64], string) {
	switch engine {
	case models.EngineHitRate:
		return a.HitRatePercent, "hit rate"
	case models.EngineJuiced:
		return a.JuiceScore, "juice score"
	case models.EngineTrap:
		return a.TrapScore, "trap score"
	case models.EngineUpset:
		return a.UpsetScore, "upset score"
	case models.EngineFatigue:
		return a.FatigueScore, "fatigue score"
	case models.EngineBestBets:
		return a.BestBetsScore, "best bets score"
	case models.EngineCoaching:
		return a.CoachingScore, "coaching score"
	case models.EngineUsage:
		return a.UsageProjection, "usage projection"
	default:
		return models.None[float64](), string(engine)
	}
}

func noData(engine models.EngineID) models.Signal {
	return models.Signal{Engine: engine, Status: models.SignalNoData, Reason: noDataReason}
}

func describe(label string, v float64, status models.SignalStatus, th Threshold) string {
	switch status {
	case models.SignalAgree:
		if th.Inverted {
			return fmt.Sprintf("%s %.1f at or below %.1f", label, v, th.AgreeAt)
		}
		return fmt.Sprintf("%s %.1f at or above %.1f", label, v, th.AgreeAt)
	case models.SignalDisagree:
		if th.Inverted {
			return fmt.Sprintf("%s %.1f at or above %.1f", label, v, th.DisagreeAt)
		}
		return fmt.Sprintf("%s %.1f at or below %.1f", label, v, th.DisagreeAt)
	default:
		return fmt.Sprintf("%s %.1f inconclusive", label, v)
	}
}
