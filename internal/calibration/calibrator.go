package calibration

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/parlay-engine/internal/models"
)

// Scope restricts a report to one engine, sport or bet type. Empty fields match all.
type Scope struct {
	Engine  models.EngineID `json:"engine,omitempty"`
	Sport   string          `json:"sport,omitempty"`
	BetType string          `json:"bet_type,omitempty"`
}

// Key returns a stable string form of the scope
func (s Scope) Key() string {
	return fmt.Sprintf("%s|%s|%s", s.Engine, s.Sport, s.BetType)
}

func (s Scope) filter() models.OutcomeFilter {
	return models.OutcomeFilter{Engine: s.Engine, Sport: s.Sport, BetType: s.BetType}
}

// Report is a calibration snapshot for one scope
type Report struct {
	Scope         Scope    `json:"scope"`
	SampleSize    int      `json:"sample_size"`
	Skipped       int      `json:"skipped"`
	Buckets       []Bucket `json:"buckets"`
	BrierScore    float64  `json:"brier_score"`
	BrierDisplay  string   `json:"brier_display"`
	LogLoss       float64  `json:"log_loss"`
	ECE           float64  `json:"ece"`
	MCE           float64  `json:"mce"`
	MeanPredicted float64  `json:"mean_predicted"`
	HitRate       float64  `json:"hit_rate"`
	Grade         Grade    `json:"grade"`
}

// Calibrator computes calibration reports under a fixed policy.
// It holds no mutable state and is safe for concurrent use.
type Calibrator struct {
	cfg    Config
	logger *logrus.Logger
}

// NewCalibrator creates a calibrator
func NewCalibrator(cfg Config, logger *logrus.Logger) (*Calibrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration config: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Calibrator{cfg: cfg, logger: logger}, nil
}

// Config returns the calibrator's policy
func (c *Calibrator) Config() Config {
	return c.cfg
}

// Evaluate builds a report over the rows that match scope
func (c *Calibrator) Evaluate(rows []models.HistoricalOutcome, scope Scope) Report {
	filter := scope.filter()
	scoped := make([]models.HistoricalOutcome, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		if !filter.Matches(r) {
			continue
		}
		if !isValidProbability(r.PredictedProbability) {
			skipped++
			continue
		}
		scoped = append(scoped, r)
	}

	report := Report{
		Scope:      scope,
		SampleSize: len(scoped),
		Skipped:    skipped,
		Buckets:    BuildBuckets(scoped, c.cfg.BucketWidth, c.cfg.Z),
		BrierScore: BrierScore(scoped),
		LogLoss:    LogLoss(scoped),
	}
	report.BrierDisplay = fmt.Sprintf("%.4f", report.BrierScore)
	report.ECE = ExpectedCalibrationError(report.Buckets)
	report.MCE = MaximumCalibrationError(report.Buckets)
	report.Grade = c.cfg.Grades.For(report.BrierScore, report.SampleSize)

	if len(scoped) > 0 {
		predicted, hits := 0.0, 0.0
		for _, r := range scoped {
			predicted += r.PredictedProbability
			hits += r.Hit()
		}
		report.MeanPredicted = predicted / float64(len(scoped))
		report.HitRate = hits / float64(len(scoped))
	}

	if skipped > 0 {
		c.logger.WithFields(logrus.Fields{
			"scope":   scope.Key(),
			"skipped": skipped,
		}).Warn("Skipped outcome rows with invalid probabilities")
	}

	return report
}

// EvaluateByEngine builds one report per engine in canonical order. Engines with
// no history get an N/A report rather than being dropped.
func (c *Calibrator) EvaluateByEngine(rows []models.HistoricalOutcome) []Report {
	engines := models.AllEngines()
	out := make([]Report, 0, len(engines))
	for _, engine := range engines {
		out = append(out, c.Evaluate(rows, Scope{Engine: engine}))
	}
	return out
}
