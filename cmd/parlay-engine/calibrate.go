package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/parlay-engine/internal/calibration"
	"github.com/yourusername/parlay-engine/internal/models"
	"github.com/yourusername/parlay-engine/internal/repository"
	"github.com/yourusername/parlay-engine/internal/service"
)

var (
	calibrateInput    string
	calibrateEngine   string
	calibrateSport    string
	calibrateBetType  string
	calibrateLookback int
)

func init() {
	calibrateCmd.Flags().StringVarP(&calibrateInput, "input", "i", "", "Path to a verified outcomes JSON file (reads the database when omitted)")
	calibrateCmd.Flags().StringVarP(&calibrateEngine, "engine", "e", "", "Restrict the scoped report to one engine")
	calibrateCmd.Flags().StringVar(&calibrateSport, "sport", "", "Restrict the scoped report to one sport")
	calibrateCmd.Flags().StringVar(&calibrateBetType, "bet-type", "", "Restrict the scoped report to one bet type")
	calibrateCmd.Flags().IntVar(&calibrateLookback, "lookback-days", -1, "Only use outcomes this recent (0 for all; defaults to calibration.lookback_days, or all for --input)")
}

// calibrateOutput is the calibrate command's JSON output
type calibrateOutput struct {
	Summary *service.RefreshSummary `json:"summary"`
	Scoped  *calibration.Report     `json:"scoped,omitempty"`
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Grade historical prediction calibration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		scope := calibration.Scope{Sport: calibrateSport, BetType: calibrateBetType}
		if calibrateEngine != "" {
			engine, err := models.ParseEngineID(calibrateEngine)
			if err != nil {
				return err
			}
			scope.Engine = engine
		}

		var outcomes repository.OutcomeRepository
		if calibrateInput != "" {
			var rows []models.HistoricalOutcome
			if err := readJSONFile(calibrateInput, &rows); err != nil {
				return err
			}
			for i, row := range rows {
				if err := row.Validate(); err != nil {
					return fmt.Errorf("outcome %d: %w", i, err)
				}
			}
			outcomes = repository.NewMemoryOutcomeRepository(rows)
			if calibrateLookback < 0 {
				calibrateLookback = 0
			}
		} else {
			cfg.Database.Enabled = true
			deps, err := setupDependencies(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()
			outcomes = deps.repos.Outcome
		}

		svc, err := newCalibrationService(outcomes)
		if err != nil {
			return err
		}

		out := calibrateOutput{}
		if out.Summary, err = svc.Refresh(ctx); err != nil {
			return err
		}
		if scope != (calibration.Scope{}) {
			if out.Scoped, err = svc.Report(ctx, scope); err != nil {
				return err
			}
		}

		return printJSON(out)
	},
}

func newCalibrationService(outcomes repository.OutcomeRepository) (*service.CalibrationService, error) {
	calibrator, err := calibration.NewCalibrator(cfg.CalibrationPolicy(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create calibrator: %w", err)
	}

	opts := service.CalibrationOptions{
		LookbackDays: cfg.Calibration.LookbackDays,
		MaxRows:      cfg.Calibration.MaxRows,
	}
	if calibrateLookback >= 0 {
		opts.LookbackDays = calibrateLookback
	}

	cache := service.NewCalibrationCache(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupSeconds)*time.Second,
	)

	return service.NewCalibrationService(outcomes, calibrator, cache, opts, logger), nil
}
