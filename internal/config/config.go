package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	User     UserConfig     `mapstructure:"user"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the SQLite store location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UserConfig holds per-user physiology and locale settings
type UserConfig struct {
	Timezone       string `mapstructure:"timezone"`
	EstimatedMaxHR int    `mapstructure:"estimated_max_hr"`
}

// AnalysisConfig holds the statistical thresholds for correlation and
// pattern analysis
type AnalysisConfig struct {
	Target                string `mapstructure:"target"`
	MinDays               int    `mapstructure:"min_days"`
	PreliminaryDays       int    `mapstructure:"preliminary_days"`
	MinPatternDays        int    `mapstructure:"min_pattern_days"`
	NearestToleranceMin   int    `mapstructure:"nearest_tolerance_min"`
	TrainingLookbackHours int    `mapstructure:"training_lookback_hours"`
	HighStressThreshold   int    `mapstructure:"high_stress_threshold"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.path", "data/biosignal.db")
	v.SetDefault("user.timezone", "Europe/London")
	v.SetDefault("user.estimated_max_hr", 190)
	v.SetDefault("analysis.target", "pm_slump")
	v.SetDefault("analysis.min_days", 7)
	v.SetDefault("analysis.preliminary_days", 30)
	v.SetDefault("analysis.min_pattern_days", 5)
	v.SetDefault("analysis.nearest_tolerance_min", 30)
	v.SetDefault("analysis.training_lookback_hours", 48)
	v.SetDefault("analysis.high_stress_threshold", 60)

	// Read from environment variables
	v.SetEnvPrefix("BIOSIGNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for convenience
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("user.timezone", "TZ_NAME")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are usable
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if _, err := time.LoadLocation(c.User.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.User.Timezone, err)
	}
	if c.User.EstimatedMaxHR <= 0 {
		return fmt.Errorf("estimated max HR must be positive")
	}
	if c.Analysis.Target == "" {
		return fmt.Errorf("analysis target is required")
	}
	if c.Analysis.MinDays < 2 {
		return fmt.Errorf("analysis min days must be at least 2")
	}
	return nil
}

// Location resolves the configured timezone. Validate has already checked it
// parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.User.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
