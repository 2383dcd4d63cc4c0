package calibration

import (
	"math"

	"github.com/yourusername/parlay-engine/internal/models"
)

// BrierScore is the mean squared error between predicted probability and outcome.
// With no rows it returns UninformativeBrier.
func BrierScore(rows []models.HistoricalOutcome) float64 {
	valid := validRows(rows)
	if len(valid) == 0 {
		return UninformativeBrier
	}
	sum := 0.0
	for _, r := range valid {
		diff := r.PredictedProbability - r.Hit()
		sum += diff * diff
	}
	return sum / float64(len(valid))
}

// LogLoss is the mean binary cross-entropy. Predictions are clamped away from
// 0 and 1 so a confident miss costs a large but finite amount. With no rows it
// returns ln 2, the loss of always predicting 0.5.
func LogLoss(rows []models.HistoricalOutcome) float64 {
	valid := validRows(rows)
	if len(valid) == 0 {
		return math.Ln2
	}
	sum := 0.0
	for _, r := range valid {
		p := clamp(r.PredictedProbability, logLossEpsilon, 1-logLossEpsilon)
		if r.ActualOutcome {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(valid))
}

// ExpectedCalibrationError is the count-weighted mean gap between predicted
// and actual rates over buckets
func ExpectedCalibrationError(buckets []Bucket) float64 {
	total := 0
	weighted := 0.0
	for _, b := range buckets {
		total += b.Count
		weighted += float64(b.Count) * b.Gap()
	}
	if total == 0 {
		return 0
	}
	return weighted / float64(total)
}

// MaximumCalibrationError is the worst bucket gap
func MaximumCalibrationError(buckets []Bucket) float64 {
	worst := 0.0
	for _, b := range buckets {
		if b.Count > 0 && b.Gap() > worst {
			worst = b.Gap()
		}
	}
	return worst
}

// WilsonInterval returns the Wilson score interval for a proportion observed
// over n trials. n == 0 returns the uninformative [0, 1].
func WilsonInterval(proportion float64, n int, z float64) (float64, float64) {
	if n <= 0 {
		return 0, 1
	}
	p := clamp(proportion, 0, 1)
	nf := float64(n)
	z2 := z * z
	denom := 1 + z2/nf
	center := (p + z2/(2*nf)) / denom
	margin := z * math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf)) / denom
	lower, upper := clamp(center-margin, 0, 1), clamp(center+margin, 0, 1)
	if p == 0 {
		lower = 0
	}
	if p == 1 {
		upper = 1
	}
	return lower, upper
}

func validRows(rows []models.HistoricalOutcome) []models.HistoricalOutcome {
	out := make([]models.HistoricalOutcome, 0, len(rows))
	for _, r := range rows {
		if isValidProbability(r.PredictedProbability) {
			out = append(out, r)
		}
	}
	return out
}

func isValidProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
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
