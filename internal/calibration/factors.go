package calibration

import (
	"sort"

	"github.com/yourusername/parlay-engine/internal/models"
)

// FactorStatus describes the direction of miscalibration
type FactorStatus string

const (
	WellCalibrated FactorStatus = "well_calibrated"
	Overconfident  FactorStatus = "overconfident"
	Underconfident FactorStatus = "underconfident"
)

// Factor is the observed/predicted ratio for one sport, bet type and confidence level
type Factor struct {
	Sport             string       `json:"sport"`
	BetType           string       `json:"bet_type"`
	ConfidenceLevel   string       `json:"confidence_level"`
	PredictedAvg      float64      `json:"predicted_avg"`
	ActualWinRate     float64      `json:"actual_win_rate"`
	CalibrationFactor float64      `json:"calibration_factor"`
	SampleSize        int          `json:"sample_size"`
	Status            FactorStatus `json:"status"`
}

type factorKey struct {
	sport, betType, level string
}

type factorAccumulator struct {
	predicted float64
	hits      float64
	count     int
}

// Factors groups rows by sport, bet type and confidence level and computes
// actualWinRate / predictedAvg for each group. The level is always derived from
// the predicted probability, the same key Corrector.Lookup uses; a stored row
// label is ignored. Groups are returned sorted by key.
func (c *Calibrator) Factors(rows []models.HistoricalOutcome) []Factor {
	groups := make(map[factorKey]*factorAccumulator)
	for _, r := range rows {
		if !isValidProbability(r.PredictedProbability) {
			continue
		}
		key := factorKey{sport: r.Sport, betType: r.BetType, level: c.cfg.ConfidenceLevelFor(r.PredictedProbability)}
		acc, ok := groups[key]
		if !ok {
			acc = &factorAccumulator{}
			groups[key] = acc
		}
		acc.predicted += r.PredictedProbability
		acc.hits += r.Hit()
		acc.count++
	}

	out := make([]Factor, 0, len(groups))
	for key, acc := range groups {
		n := float64(acc.count)
		predicted := acc.predicted / n
		actual := acc.hits / n
		factor := 1.0
		if predicted > 0 {
			factor = actual / predicted
		}
		out = append(out, Factor{
			Sport:             key.sport,
			BetType:           key.betType,
			ConfidenceLevel:   key.level,
			PredictedAvg:      predicted,
			ActualWinRate:     actual,
			CalibrationFactor: factor,
			SampleSize:        acc.count,
			Status:            c.statusFor(factor),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Sport != out[j].Sport {
			return out[i].Sport < out[j].Sport
		}
		if out[i].BetType != out[j].BetType {
			return out[i].BetType < out[j].BetType
		}
		return out[i].ConfidenceLevel < out[j].ConfidenceLevel
	})
	return out
}

func (c *Calibrator) statusFor(factor float64) FactorStatus {
	switch {
	case factor < c.cfg.WellCalibratedLow:
		return Overconfident
	case factor > c.cfg.WellCalibratedHigh:
		return Underconfident
	default:
		return WellCalibrated
	}
}
