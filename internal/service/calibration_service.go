package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/parlay-engine/internal/calibration"
	"github.com/yourusername/parlay-engine/internal/logger"
	"github.com/yourusername/parlay-engine/internal/metrics"
	"github.com/yourusername/parlay-engine/internal/models"
	"github.com/yourusername/parlay-engine/internal/repository"
)

// CalibrationOptions bounds how much outcome history a refresh reads
type CalibrationOptions struct {
	LookbackDays int
	MaxRows      int
}

// RefreshSummary describes one calibration refresh
type RefreshSummary struct {
	Rows        int                  `json:"rows"`
	Reports     []calibration.Report `json:"reports"`
	Factors     []calibration.Factor `json:"factors"`
	UsableCount int                  `json:"usable_factors"`
	Drifting    int                  `json:"drifting_factors"`
	Duration    time.Duration        `json:"duration"`
}

// CalibrationService reads verified outcomes and serves cached calibration reports
type CalibrationService struct {
	outcomes     repository.OutcomeRepository
	calibrator   *calibration.Calibrator
	cache        *CalibrationCache
	opts         CalibrationOptions
	engineLogger *logger.EngineLogger
	logger       *logrus.Logger
	now          func() time.Time
}

// NewCalibrationService creates a new calibration service
func NewCalibrationService(
	outcomes repository.OutcomeRepository,
	calibrator *calibration.Calibrator,
	cache *CalibrationCache,
	opts CalibrationOptions,
	logger *logrus.Logger,
) *CalibrationService {
	if logger == nil {
		logger = logrus.New()
	}
	return &CalibrationService{
		outcomes:     outcomes,
		calibrator:   calibrator,
		cache:        cache,
		opts:         opts,
		engineLogger: engineLoggerFor(logger),
		logger:       logger,
		now:          time.Now,
	}
}

// Report returns the calibration report for a scope, computing it on a cache miss
func (s *CalibrationService) Report(ctx context.Context, scope calibration.Scope) (*calibration.Report, error) {
	if report, ok := s.cache.GetReport(scope); ok {
		return report, nil
	}

	rows, err := s.fetch(ctx, models.OutcomeFilter{Engine: scope.Engine, Sport: scope.Sport, BetType: scope.BetType})
	if err != nil {
		return nil, err
	}

	report := s.calibrator.Evaluate(rows, scope)
	s.cache.SetReport(&report)
	s.engineLogger.LogCalibrationReport(scope.Key(), report.SampleSize, report.BrierScore, report.ECE, report.Grade.Letter)

	return &report, nil
}

// Corrector returns the calibration factor corrector, computing it on a cache miss
func (s *CalibrationService) Corrector(ctx context.Context) (*calibration.Corrector, error) {
	if corrector, ok := s.cache.GetCorrector(); ok {
		return corrector, nil
	}

	rows, err := s.fetch(ctx, models.OutcomeFilter{})
	if err != nil {
		return nil, err
	}

	corrector := calibration.NewCorrector(s.calibrator.Factors(rows), s.calibrator.Config())
	s.cache.SetCorrector(corrector)
	return corrector, nil
}

// Refresh recomputes per-engine reports and calibration factors from scratch,
// replacing everything cached.
func (s *CalibrationService) Refresh(ctx context.Context) (*RefreshSummary, error) {
	start := s.now()

	rows, err := s.fetch(ctx, models.OutcomeFilter{})
	if err != nil {
		metrics.RecordCalibrationRefresh("error")
		return nil, err
	}

	s.cache.Invalidate()

	summary := &RefreshSummary{Rows: len(rows)}
	overall := s.calibrator.Evaluate(rows, calibration.Scope{})
	s.cache.SetReport(&overall)
	summary.Reports = append(summary.Reports, overall)

	for _, report := range s.calibrator.EvaluateByEngine(rows) {
		report := report
		s.cache.SetReport(&report)
		summary.Reports = append(summary.Reports, report)
		metrics.UpdateCalibration(string(report.Scope.Engine), report.BrierScore, report.ECE, report.SampleSize)
		s.engineLogger.LogCalibrationReport(report.Scope.Key(), report.SampleSize, report.BrierScore, report.ECE, report.Grade.Letter)
	}

	cfg := s.calibrator.Config()
	summary.Factors = s.calibrator.Factors(rows)
	for _, f := range summary.Factors {
		if f.SampleSize < cfg.MinFactorSamples {
			continue
		}
		summary.UsableCount++
		if f.Status != calibration.WellCalibrated {
			summary.Drifting++
			s.engineLogger.LogCalibrationDrift(f.Sport, f.BetType, f.ConfidenceLevel, f.CalibrationFactor, f.SampleSize, string(f.Status))
		}
	}
	s.cache.SetCorrector(calibration.NewCorrector(summary.Factors, cfg))

	summary.Duration = s.now().Sub(start)
	metrics.RecordCalibrationRefresh("success")

	s.logger.WithFields(logrus.Fields{
		"rows":             summary.Rows,
		"reports":          len(summary.Reports),
		"usable_factors":   summary.UsableCount,
		"drifting_factors": summary.Drifting,
		"duration_ms":      summary.Duration.Milliseconds(),
	}).Info("Calibration refreshed")

	return summary, nil
}

func (s *CalibrationService) fetch(ctx context.Context, filter models.OutcomeFilter) ([]models.HistoricalOutcome, error) {
	if s.opts.LookbackDays > 0 {
		filter.Since = s.now().AddDate(0, 0, -s.opts.LookbackDays)
	}
	filter.Limit = s.opts.MaxRows

	rows, err := s.outcomes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load verified outcomes: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"engine":   filter.Engine,
		"sport":    filter.Sport,
		"bet_type": filter.BetType,
		"rows":     len(rows),
	}).Debug("Loaded verified outcomes")

	return rows, nil
}

func engineLoggerFor(base *logrus.Logger) *logger.EngineLogger {
	return logger.NewEngineLogger(base)
}
