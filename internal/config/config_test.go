package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/go-playground/validator/v10"

	"github.com/yourusername/parlay-engine/internal/models"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	parlayEngineName             = "parlay-engine"
	developmentEnv               = "development"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	postgresPrefix               = "postgres://"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	testMissingVar               = "TEST_MISSING_VAR"
	expandedSecretValue          = "expanded_secret_value"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != parlayEngineName {
		t.Errorf("expected app name '%s', got '%s'", parlayEngineName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}
	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}
	if cfg.Engine.Weights["sharp"] != 1.5 {
		t.Errorf("expected sharp weight 1.5, got %v", cfg.Engine.Weights["sharp"])
	}
	if cfg.Kelly.DefaultMultiplier != 0.25 {
		t.Errorf("expected default multiplier 0.25, got %v", cfg.Kelly.DefaultMultiplier)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaultsMissingFile falls back to defaults that validate
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != parlayEngineName {
		t.Errorf("expected default app name, got '%s'", cfg.App.Name)
	}
	if cfg.Blend.CorrelationWeight != 0.5 {
		t.Errorf("expected default correlation weight 0.5, got %v", cfg.Blend.CorrelationWeight)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("PARLAY_ENGINE_APP_NAME", testAppName)
	t.Setenv("PARLAY_ENGINE_KELLY_MAX_BET_PERCENT", "0.02")

	cfg := loadValid(t)

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
	if cfg.Kelly.MaxBetPercent != 0.02 {
		t.Errorf("expected max bet percent 0.02 from environment, got %v", cfg.Kelly.MaxBetPercent)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg := loadValid(t)
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateFailures covers the custom and cross-field rules
func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errText string
	}{
		{"invalid environment", func(c *Config) { c.App.Environment = "invalid" }, "Environment"},
		{"invalid log level", func(c *Config) { c.App.LogLevel = "verbose" }, "LogLevel"},
		{"unknown engine weight", func(c *Config) { c.Engine.Weights["astrology"] = 1 }, "unknown engine"},
		{"negative engine weight", func(c *Config) { c.Engine.Weights["trap"] = -1 }, "Weights"},
		{"zero blend weights", func(c *Config) { c.Blend = BlendConfig{} }, "blend"},
		{"unsupported multiplier", func(c *Config) { c.Kelly.DefaultMultiplier = 0.3 }, "default_multiplier"},
		{"overlapping thresholds", func(c *Config) {
			c.Engine.Thresholds["juiced"] = ThresholdConfig{AgreeAt: 40, DisagreeAt: 60}
		}, "thresholds"},
		{"bad cron", func(c *Config) { c.Scheduler.CalibrationRefresh = "every tuesday" }, "calibration_refresh"},
		{"correlation without url", func(c *Config) { c.Correlation.BaseURL = "" }, "BaseURL"},
		{"production without ssl", func(c *Config) { c.App.Environment = "production" }, "SSL"},
		{"idle above max", func(c *Config) { c.Database.MaxIdleConnections = 50 }, "max_idle_connections"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("expected error mentioning %q, got: %v", tt.errText, err)
			}
		})
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg := loadValid(t)

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected DSN to carry ssl mode, got '%s'", dsn)
	}
}

// TestEnvironmentChecks tests the environment helpers
func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: developmentEnv}}
	if !cfg.IsDevelopment() || cfg.IsProduction() || cfg.IsStaging() {
		t.Error("expected development only")
	}

	cfg.App.Environment = "staging"
	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}

	cfg.App.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}
}

// TestEnginePolicyOverrides checks config weights flow into the ensemble policy
func TestEnginePolicyOverrides(t *testing.T) {
	cfg := loadValid(t)
	cfg.Engine.Weights["coaching"] = 2.0

	policy, err := cfg.EnginePolicy()
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	for _, w := range policy.Weights {
		if w.Engine == models.EngineCoaching && w.Weight != 2.0 {
			t.Errorf("expected coaching weight 2.0, got %v", w.Weight)
		}
	}
}

// TestThresholdTableOverrides keeps the default scale when none is configured
func TestThresholdTableOverrides(t *testing.T) {
	cfg := loadValid(t)

	table, err := cfg.ThresholdTable()
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	th := table[models.EngineHitRate]
	if th.AgreeAt != 60 || th.DisagreeAt != 44 {
		t.Errorf("expected hitrate override 60/44, got %v/%v", th.AgreeAt, th.DisagreeAt)
	}
	if th.Scale <= 0 {
		t.Errorf("expected default scale to be kept, got %v", th.Scale)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable expands unset variables to empty strings
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	t.Setenv(testMissingVar, "")

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	if cfg.Database.Password != "" {
		t.Errorf("expected empty password, got %q", cfg.Database.Password)
	}
}

type fakeSecretsClient struct {
	output *secretsmanager.GetSecretValueOutput
	err    error
	asked  string
}

func (f *fakeSecretsClient) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.ToString(params.SecretId)
	return f.output, f.err
}

// TestSecretsOverlay tests fetching and applying secrets
func TestSecretsOverlay(t *testing.T) {
	client := &fakeSecretsClient{output: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"s3cret","correlation_api_key":"live-key"}`),
	}}

	secrets, err := FetchSecrets(context.Background(), client, "parlay/prod")
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if client.asked != "parlay/prod" {
		t.Errorf("expected secret name 'parlay/prod', got '%s'", client.asked)
	}

	cfg := loadValid(t)
	secrets.Apply(cfg)
	if cfg.Database.Password != "s3cret" {
		t.Errorf("expected overlaid password, got '%s'", cfg.Database.Password)
	}
	if cfg.Correlation.APIKey != "live-key" {
		t.Errorf("expected overlaid api key, got '%s'", cfg.Correlation.APIKey)
	}
}

// TestSecretsErrors tests empty and failing secret lookups
func TestSecretsErrors(t *testing.T) {
	_, err := FetchSecrets(context.Background(), &fakeSecretsClient{output: &secretsmanager.GetSecretValueOutput{}}, "x")
	if !errors.Is(err, errNoSecretData) {
		t.Errorf("expected errNoSecretData, got %v", err)
	}

	_, err = FetchSecrets(context.Background(), &fakeSecretsClient{err: errors.New("denied")}, "x")
	if err == nil {
		t.Fatal("expected error from client")
	}

	if err := LoadSecretsFromAWS(context.Background(), &Config{}); err != nil {
		t.Errorf("expected disabled secrets to be a no-op, got %v", err)
	}
}

// TestValidateEnvironment rejects test credentials in production
func TestValidateEnvironment(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "require"
	cfg.Correlation.APIKey = "YOUR_API_KEY"

	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected production test credential to be rejected")
	}

	cfg.Correlation.APIKey = "a8f9c2"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}

// TestMustRegisterPanicsOnBadTag ensures registration failures are not swallowed
func TestMustRegisterPanicsOnBadTag(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for an empty validator tag")
		}
		if !strings.Contains(fmt.Sprint(r), "failed to register") {
			t.Errorf("unexpected panic message: %v", r)
		}
	}()
	mustRegister(validator.New(), "", validateEngine)
}

// TestCorrelationCircuitCooldown loads the breaker cooldown
func TestCorrelationCircuitCooldown(t *testing.T) {
	cfg := loadValid(t)
	if cfg.Correlation.CircuitCooldownSeconds != 30 {
		t.Errorf("expected circuit cooldown 30, got %d", cfg.Correlation.CircuitCooldownSeconds)
	}
}
