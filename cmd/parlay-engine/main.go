// Package main provides the parlay engine command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/parlay-engine/internal/config"
	"github.com/yourusername/parlay-engine/internal/correlation"
	"github.com/yourusername/parlay-engine/internal/database"
	applogger "github.com/yourusername/parlay-engine/internal/logger"
	"github.com/yourusername/parlay-engine/internal/repository"
	"github.com/yourusername/parlay-engine/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	useDB      bool
	cfg        *config.Config
	logger     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&useDB, "db", false, "Read bankroll settings and outcome history from the database")
}

var rootCmd = &cobra.Command{
	Use:           "parlay-engine",
	Short:         "Parlay probability and staking engine",
	Long:          `Scores parlay legs across analysis engines, blends probabilities, grades calibration and sizes stakes with the Kelly criterion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func main() {
	rootCmd.AddCommand(analyzeCmd, kellyCmd, calibrateCmd, serveCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return err
	}

	if useDB {
		cfg.Database.Enabled = true
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return err
	}

	logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	// stdout carries command output
	logger.SetOutput(os.Stderr)

	logger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"database":    cfg.Database.Enabled,
		"correlation": cfg.Correlation.Enabled,
	}).Debug("Configuration loaded")

	return nil
}

// dependencies are the optional infrastructure collaborators
type dependencies struct {
	db          *database.DB
	repos       *repository.Repositories
	calibration *service.CalibrationService
	correlation *correlation.Client
}

func setupDependencies(ctx context.Context) (*dependencies, error) {
	deps := &dependencies{}

	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.db = db
		logger.Info("Database connection established")

		deps.repos, err = repository.NewRepositories(db)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}

		deps.calibration, err = newCalibrationService(deps.repos.Outcome)
		if err != nil {
			deps.Close()
			return nil, err
		}
	}

	if cfg.Correlation.Enabled {
		client, err := correlation.NewClient(cfg.Correlation, logger)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to create correlation client: %w", err)
		}
		deps.correlation = client
		logger.WithField("base_url", cfg.Correlation.BaseURL).Info("Correlation client initialized")
	}

	return deps, nil
}

// analyzerDeps attaches whichever optional collaborators are configured
func (d *dependencies) analyzerDeps() service.AnalyzerDeps {
	var deps service.AnalyzerDeps
	if d.repos != nil {
		deps.Bankrolls = d.repos.Bankroll
	}
	if d.calibration != nil {
		deps.Calibration = d.calibration
	}
	if d.correlation != nil {
		deps.Correlation = d.correlation
	}
	return deps
}

func (d *dependencies) Close() {
	if d.correlation != nil {
		_ = d.correlation.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
