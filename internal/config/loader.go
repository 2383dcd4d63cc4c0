package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PARLAY_ENGINE_APP_LOG_LEVEL
const EnvPrefix = "PARLAY_ENGINE"

const defaultConfigPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults mirrors the production defaults of the engine packages
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "parlay-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("engine.ai_nudge", 0.15)

	v.SetDefault("blend.book_weight", 0.10)
	v.SetDefault("blend.ai_weight", 0.40)
	v.SetDefault("blend.correlation_weight", 0.50)

	v.SetDefault("kelly.default_multiplier", 0.25)
	v.SetDefault("kelly.max_bet_percent", 0.05)
	v.SetDefault("kelly.min_bankroll", 10)
	v.SetDefault("kelly.default_bankroll", 1000)
	v.SetDefault("kelly.default_unit_size", 10)

	v.SetDefault("calibration.bucket_width", 0.1)
	v.SetDefault("calibration.min_factor_samples", 20)
	v.SetDefault("calibration.lookback_days", 180)
	v.SetDefault("calibration.max_rows", 50000)

	v.SetDefault("correlation.enabled", false)
	v.SetDefault("correlation.timeout_seconds", 10)
	v.SetDefault("correlation.retry_attempts", 3)
	v.SetDefault("correlation.requests_per_second", 5)
	v.SetDefault("correlation.burst", 5)
	v.SetDefault("correlation.circuit_cooldown_seconds", 30)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.calibration_refresh", "0 */15 * * * *")

	v.SetDefault("cache.ttl_seconds", 900)
	v.SetDefault("cache.cleanup_seconds", 1800)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration, falling back to defaults and
// environment variables when the file does not exist
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
