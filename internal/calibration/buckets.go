package calibration

import (
	"math"

	"github.com/yourusername/parlay-engine/internal/models"
)

// Bucket aggregates historical rows whose prediction fell in [BucketStart, BucketEnd)
type Bucket struct {
	BucketStart     float64 `json:"bucket_start"`
	BucketEnd       float64 `json:"bucket_end"`
	PredictedAvg    float64 `json:"predicted_avg"`
	ActualAvg       float64 `json:"actual_avg"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
	Count           int     `json:"count"`
}

// Gap is the absolute difference between predicted and observed rate
func (b Bucket) Gap() float64 {
	return math.Abs(b.PredictedAvg - b.ActualAvg)
}

// BuildBuckets partitions [0,1] into fixed-width bins and aggregates rows into
// them. Empty bins are omitted. A prediction of exactly 1 lands in the last bin.
func BuildBuckets(rows []models.HistoricalOutcome, width, z float64) []Bucket {
	if width <= 0 || width > 1 {
		width = DefaultBucketWidth
	}
	n := int(math.Ceil(1/width - 1e-9))

	predSums := make([]float64, n)
	hitSums := make([]float64, n)
	counts := make([]int, n)

	for _, r := range rows {
		if !isValidProbability(r.PredictedProbability) {
			continue
		}
		idx := binIndex(r.PredictedProbability, width, n)
		predSums[idx] += r.PredictedProbability
		hitSums[idx] += r.Hit()
		counts[idx]++
	}

	buckets := make([]Bucket, 0, n)
	for i := 0; i < n; i++ {
		if counts[i] == 0 {
			continue
		}
		count := float64(counts[i])
		actual := hitSums[i] / count
		lower, upper := WilsonInterval(actual, counts[i], z)
		buckets = append(buckets, Bucket{
			BucketStart:     round4(float64(i) * width),
			BucketEnd:       round4(math.Min(1, float64(i+1)*width)),
			PredictedAvg:    predSums[i] / count,
			ActualAvg:       actual,
			ConfidenceLower: lower,
			ConfidenceUpper: upper,
			Count:           counts[i],
		})
	}
	return buckets
}

func binIndex(p, width float64, n int) int {
	idx := int(math.Floor(p/width + 1e-9))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
