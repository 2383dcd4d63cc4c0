package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/parlay-engine/internal/config"
	applogger "github.com/yourusername/parlay-engine/internal/logger"
	"github.com/yourusername/parlay-engine/internal/models"
	"github.com/yourusername/parlay-engine/internal/repository"
	"github.com/yourusername/parlay-engine/internal/service"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	var err error
	cfg, err = config.LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))
	logger = applogger.Discard()
}

func TestAnalyzeTestdata(t *testing.T) {
	setupTestConfig(t)

	var req service.AnalyzeRequest
	require.NoError(t, readJSONFile("testdata/parlay.json", &req))
	require.Len(t, req.Parlay.Legs, 3)

	analyzer, err := service.NewParlayAnalyzerFromConfig(cfg, service.AnalyzerDeps{}, logger)
	require.NoError(t, err)

	analysis, err := analyzer.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, analysis.Consensus.Legs, 3)
	assert.True(t, analysis.Blend.HasAIData)
	assert.False(t, analysis.Blend.HasCorrelationData)
	assert.NotEmpty(t, analysis.Blend.Warnings, "two legs share a game")
	assert.True(t, analysis.Stake.IsValid)
}

func TestCalibrateTestdata(t *testing.T) {
	setupTestConfig(t)
	calibrateLookback = 0

	var rows []models.HistoricalOutcome
	require.NoError(t, readJSONFile("testdata/outcomes.json", &rows))
	require.NotEmpty(t, rows)

	svc, err := newCalibrationService(repository.NewMemoryOutcomeRepository(rows))
	require.NoError(t, err)

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(rows), summary.Rows)
	assert.Equal(t, len(rows), summary.Reports[0].SampleSize)
}

func TestKellyInput(t *testing.T) {
	setupTestConfig(t)
	t.Cleanup(func() {
		kellyBankroll, kellyMultiplier, kellyMaxBet = "", "", 0
	})

	kellyProbability, kellyAmerican = 0.55, 100
	in, err := kellyInput()
	require.NoError(t, err)
	assert.True(t, in.Bankroll.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 0.05, in.MaxBetPercent)

	kellyBankroll, kellyMultiplier, kellyMaxBet = "250.50", "half", 0.1
	in, err = kellyInput()
	require.NoError(t, err)
	assert.True(t, in.Bankroll.Equal(decimal.RequireFromString("250.50")))
	assert.Equal(t, 0.5, float64(in.KellyMultiplier))
	assert.Equal(t, 0.1, in.MaxBetPercent)

	kellyMultiplier = "double"
	_, err = kellyInput()
	assert.Error(t, err)

	kellyMultiplier, kellyBankroll = "", "lots"
	_, err = kellyInput()
	assert.Error(t, err)
}

func TestReadJSONFileErrors(t *testing.T) {
	var v map[string]interface{}
	assert.Error(t, readJSONFile("testdata/does-not-exist.json", &v))
}

func TestServerConfigsMetricsListener(t *testing.T) {
	setupTestConfig(t)
	servePort = 8080

	t.Run("dedicated metrics port", func(t *testing.T) {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = 9090
		configs := serverConfigs(nil, nil)
		require.Len(t, configs, 2)
		assert.Equal(t, 8080, configs[0].Port)
		assert.Nil(t, configs[0].Metrics)
		assert.Equal(t, 9090, configs[1].Port)
		assert.NotNil(t, configs[1].Metrics)
		assert.Equal(t, cfg.Metrics.Path, configs[1].MetricsPath)
	})

	t.Run("shared port", func(t *testing.T) {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = 8080
		configs := serverConfigs(nil, nil)
		require.Len(t, configs, 1)
		assert.NotNil(t, configs[0].Metrics)
	})

	t.Run("metrics disabled", func(t *testing.T) {
		cfg.Metrics.Enabled = false
		configs := serverConfigs(nil, nil)
		require.Len(t, configs, 1)
		assert.Nil(t, configs[0].Metrics)
	})
}
