// Package config provides configuration management for the parlay engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Blend       BlendConfig       `mapstructure:"blend"`
	Kelly       KellyConfig       `mapstructure:"kelly"`
	Calibration CalibrationConfig `mapstructure:"calibration"`
	Correlation CorrelationConfig `mapstructure:"correlation"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Secrets     SecretsConfig     `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. Only validated when enabled.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// EngineConfig overrides the ensemble weight table and signal thresholds. Keys are engine IDs.
type EngineConfig struct {
	Weights    map[string]float64         `mapstructure:"weights" validate:"dive,keys,engine,endkeys,gte=0"`
	Thresholds map[string]ThresholdConfig `mapstructure:"thresholds" validate:"dive,keys,engine,endkeys"`
	AINudge    float64                    `mapstructure:"ai_nudge" validate:"gte=0,lte=1"`
}

// ThresholdConfig overrides one engine's agree/disagree cutoffs
type ThresholdConfig struct {
	AgreeAt    float64 `mapstructure:"agree_at"`
	DisagreeAt float64 `mapstructure:"disagree_at"`
	Inverted   bool    `mapstructure:"inverted"`
	Scale      float64 `mapstructure:"scale"`
}

// BlendConfig holds the probability blend weights
type BlendConfig struct {
	BookWeight        float64 `mapstructure:"book_weight" validate:"gte=0"`
	AIWeight          float64 `mapstructure:"ai_weight" validate:"gte=0"`
	CorrelationWeight float64 `mapstructure:"correlation_weight" validate:"gte=0"`
}

// KellyConfig holds staking defaults for users without persisted settings
type KellyConfig struct {
	DefaultMultiplier float64 `mapstructure:"default_multiplier" validate:"gt=0,lte=1"`
	MaxBetPercent     float64 `mapstructure:"max_bet_percent" validate:"gt=0,lte=1"`
	MinBankroll       float64 `mapstructure:"min_bankroll" validate:"gte=0"`
	DefaultBankroll   float64 `mapstructure:"default_bankroll" validate:"gt=0"`
	DefaultUnitSize   float64 `mapstructure:"default_unit_size" validate:"gt=0"`
}

// CalibrationConfig controls calibration reports
type CalibrationConfig struct {
	BucketWidth      float64 `mapstructure:"bucket_width" validate:"gt=0,lte=1"`
	MinFactorSamples int     `mapstructure:"min_factor_samples" validate:"gte=0"`
	LookbackDays     int     `mapstructure:"lookback_days" validate:"gte=0"`
	MaxRows          int     `mapstructure:"max_rows" validate:"gte=0"`
}

// CorrelationConfig configures the external correlation model client
type CorrelationConfig struct {
	Enabled                bool    `mapstructure:"enabled"`
	BaseURL                string  `mapstructure:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey                 string  `mapstructure:"api_key"`
	TimeoutSeconds         int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryAttempts          int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond      float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst                  int     `mapstructure:"burst" validate:"gte=0"`
	CircuitCooldownSeconds int     `mapstructure:"circuit_cooldown_seconds" validate:"gte=0"`
}

// SchedulerConfig controls background calibration refresh
type SchedulerConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	CalibrationRefresh string `mapstructure:"calibration_refresh" validate:"required_if=Enabled true"`
}

// CacheConfig controls the calibration report cache
type CacheConfig struct {
	TTLSeconds     int `mapstructure:"ttl_seconds" validate:"gt=0"`
	CleanupSeconds int `mapstructure:"cleanup_seconds" validate:"gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig locates the AWS Secrets Manager secret overlaid on the config
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
