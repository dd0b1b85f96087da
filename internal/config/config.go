// Package config provides configuration management for the appointment
// application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Business BusinessConfig `mapstructure:"business"`
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Operator OperatorConfig `mapstructure:"operator"`
}

// BusinessConfig holds the tunable business rules.
type BusinessConfig struct {
	LocalCurrency string `mapstructure:"local_currency"` // currency with no minor unit on amounts
	MinBuyPercent int    `mapstructure:"min_buy_percent"`
	AuthCode      string `mapstructure:"auth_code"`  // supervisor authorization code for approvals
	AuthLevel     int    `mapstructure:"auth_level"` // minimum authorization level
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	TimeFormat   string `mapstructure:"time_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Console    bool   `mapstructure:"console"`
}

// OperatorConfig identifies the operator stamped onto approved records.
type OperatorConfig struct {
	UserID string `mapstructure:"user_id"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/invest-appointment"
	}
	return filepath.Join(home, ".config", "invest-appointment")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, createTemplateConfig(configDir)
		}
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("business.local_currency", "TWD")
	v.SetDefault("business.min_buy_percent", 5)
	v.SetDefault("business.auth_code", "0231")
	v.SetDefault("business.auth_level", 1)
	v.SetDefault("database.path", filepath.Join(configDir, "appoint.db"))
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.time_format", "15:04:05")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "appoint.log"))
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.console", false)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APPOINT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("APPOINT_USER"); v != "" {
		cfg.Operator.UserID = v
	}
	if v := os.Getenv("APPOINT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Business.LocalCurrency) != 3 {
		return fmt.Errorf("local_currency must be a 3-letter code, got %q", c.Business.LocalCurrency)
	}
	if c.Business.MinBuyPercent < 1 || c.Business.MinBuyPercent > 100 {
		return fmt.Errorf("min_buy_percent must be between 1 and 100")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}
