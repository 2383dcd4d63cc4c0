package metrics

import "github.com/prometheus/client_golang/prometheus"

// Calibration counters
var (
	CalibrationRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calibration_refreshes_total",
		Help:      "Total number of calibration refreshes by outcome",
	}, []string{"outcome"})
)

// Calibration gauges, labelled by engine
var (
	CalibrationBrierScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "calibration_brier_score",
		Help:      "Latest Brier score for each engine",
	}, []string{"engine"})
	CalibrationECE = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "calibration_ece",
		Help:      "Latest expected calibration error for each engine",
	}, []string{"engine"})
	CalibrationSampleSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "calibration_sample_size",
		Help:      "Verified outcomes behind each engine's calibration",
	}, []string{"engine"})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "calibration_cache_hit_ratio",
		Help:      "Hit ratio of the calibration report cache",
	})
)

// RecordCalibrationRefresh records a refresh attempt.
func RecordCalibrationRefresh(outcome string) {
	CalibrationRefreshesTotal.WithLabelValues(outcome).Inc()
}

// UpdateCalibration updates the gauges for one engine.
func UpdateCalibration(engine string, brier, ece float64, samples int) {
	CalibrationBrierScore.WithLabelValues(engine).Set(brier)
	CalibrationECE.WithLabelValues(engine).Set(ece)
	CalibrationSampleSize.WithLabelValues(engine).Set(float64(samples))
}

// UpdateCacheHitRatio updates the cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}
