package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/parlay-engine/internal/health"
	"github.com/yourusername/parlay-engine/internal/metrics"
	"github.com/yourusername/parlay-engine/internal/scheduler"
	"github.com/yourusername/parlay-engine/internal/service"
)

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "HTTP port for the analysis API and health checks (metrics too when metrics.port matches)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API, health checks and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	logger.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
	}).Info("Parlay engine starting")

	deps, err := setupDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	analyzer, err := service.NewParlayAnalyzerFromConfig(cfg, deps.analyzerDeps(), logger)
	if err != nil {
		return fmt.Errorf("failed to build analyzer: %w", err)
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled && deps.calibration != nil {
		sched = scheduler.NewScheduler(deps.calibration, logger)
		if err := sched.ScheduleCalibrationRefresh(cfg.Scheduler.CalibrationRefresh); err != nil {
			return err
		}
		if _, err := sched.RunNow(ctx); err != nil {
			logger.WithError(err).Warn("Initial calibration refresh failed")
		}
		if err := sched.Start(); err != nil {
			return err
		}
	}

	var db health.DatabasePinger
	if deps.db != nil {
		db = deps.db
	}

	var servers []*health.Server
	for _, sc := range serverConfigs(analyzer, db) {
		server := health.NewServer(sc)
		if err := server.Start(); err != nil {
			shutdownServers(servers)
			return fmt.Errorf("failed to start server: %w", err)
		}
		server.SetReady(true)
		servers = append(servers, server)
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownServers(servers)

	if sched != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := sched.Stop(stopCtx); err != nil {
			logger.WithError(err).Warn("Scheduler did not stop cleanly")
		}
	}

	return nil
}

// serverConfigs returns the API server and, when metrics.port differs from
// --port, a dedicated metrics listener. Otherwise metrics share the API mux.
func serverConfigs(analyzer health.Analyzer, db health.DatabasePinger) []health.Config {
	api := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        servePort,
		Analyzer:    analyzer,
		Logger:      logger,
		DB:          db,
	}
	if !cfg.Metrics.Enabled {
		return []health.Config{api}
	}

	metrics.InitRegistry()
	if cfg.Metrics.Port == servePort {
		api.Metrics = metrics.Handler()
		api.MetricsPath = cfg.Metrics.Path
		return []health.Config{api}
	}

	return []health.Config{api, {
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Metrics.Port,
		MetricsPath: cfg.Metrics.Path,
		Metrics:     metrics.Handler(),
		Logger:      logger,
		DB:          db,
	}}
}

// shutdownServers drains every server before dependencies are closed
func shutdownServers(servers []*health.Server) {
	for _, s := range servers {
		s.SetReady(false)
	}
	for _, s := range servers {
		if err := s.Shutdown(); err != nil {
			logger.WithError(err).Warn("HTTP server shutdown error")
		}
	}
}
