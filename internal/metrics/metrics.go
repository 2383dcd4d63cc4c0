// Package metrics provides centralized Prometheus metrics registry for the parlay engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parlay_engine"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of parlay analyses by overall consensus",
	}, []string{"consensus"})
	LegsAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "legs_analyzed_total",
		Help:      "Total number of legs analyzed",
	})
	KellyRecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "kelly_recommendations_total",
		Help:      "Total number of stake recommendations by risk level",
	}, []string{"risk_level"})
	DegradedBlendsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_blends_total",
		Help:      "Blends computed without a probability source",
	}, []string{"missing"})
	CorrelationRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "correlation_requests_total",
		Help:      "Requests to the correlation model by outcome",
	}, []string{"outcome"})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of parlay analysis in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ConfidenceScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "blend_confidence_score",
		Help:      "Confidence scores of blended parlay probabilities",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(LegsAnalyzedTotal)
		registry.MustRegister(KellyRecommendationsTotal)
		registry.MustRegister(DegradedBlendsTotal)
		registry.MustRegister(CorrelationRequestsTotal)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(ConfidenceScore)

		registry.MustRegister(CalibrationRefreshesTotal)
		registry.MustRegister(CalibrationBrierScore)
		registry.MustRegister(CalibrationECE)
		registry.MustRegister(CalibrationSampleSize)
		registry.MustRegister(CacheHitRatio)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAnalysis records a completed parlay analysis.
func RecordAnalysis(consensus string, legs int, durationSeconds float64) {
	AnalysesTotal.WithLabelValues(consensus).Inc()
	LegsAnalyzedTotal.Add(float64(legs))
	AnalysisDuration.Observe(durationSeconds)
}

// RecordKellyRecommendation records a stake recommendation.
func RecordKellyRecommendation(riskLevel string) {
	KellyRecommendationsTotal.WithLabelValues(riskLevel).Inc()
}

// RecordBlend records the confidence of a blend and any missing sources.
func RecordBlend(confidence float64, hasAI, hasCorrelation bool) {
	ConfidenceScore.Observe(confidence)
	if !hasAI {
		DegradedBlendsTotal.WithLabelValues("ai").Inc()
	}
	if !hasCorrelation {
		DegradedBlendsTotal.WithLabelValues("correlation").Inc()
	}
}

// RecordCorrelationRequest records a correlation model call outcome.
func RecordCorrelationRequest(outcome string) {
	CorrelationRequestsTotal.WithLabelValues(outcome).Inc()
}
