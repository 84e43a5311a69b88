// Package config defines the ReUp CLI configuration model. Loading is done
// by the cmd package through viper; this package owns the shape, defaults,
// and validation.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	User      UserConfig      `mapstructure:"user"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL        string `mapstructure:"baseUrl" validate:"required,url"`
	Token          string `mapstructure:"token" validate:"omitempty,min=1"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds" validate:"omitempty,min=1,max=600"`
}

// Timeout returns the configured request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// UserConfig identifies the active user. Commands that need a user fall back
// to this when no --user flag is given.
type UserConfig struct {
	ID string `mapstructure:"id" validate:"omitempty,min=1"`
}

// RefreshConfig controls the watch-mode auto-refresh.
type RefreshConfig struct {
	IntervalMinutes int `mapstructure:"intervalMinutes" validate:"omitempty,min=1,max=120"`
}

// Interval returns the refresh period.
func (r RefreshConfig) Interval() time.Duration {
	return time.Duration(r.IntervalMinutes) * time.Minute
}

// SnapshotConfig controls local session snapshots.
type SnapshotConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir" validate:"omitempty,min=1"`
	Format  string `mapstructure:"format" validate:"omitempty,oneof=json yaml"`
}

// TelemetryConfig controls anonymous usage analytics.
type TelemetryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	APIKey     string `mapstructure:"apiKey"`
	DistinctID string `mapstructure:"distinctId" validate:"omitempty,uuid4"`
}

// validate is a single instance; it caches struct info.
var validate = validator.New()

// Validate checks the populated configuration.
func Validate(cfg *AppConfig) error {
	return validate.Struct(cfg)
}

// Defaults returns the default configuration values keyed the way viper
// expects them.
func Defaults() map[string]any {
	return map[string]any{
		"api.baseUrl":             "http://localhost:8080",
		"api.timeoutSeconds":      15,
		"refresh.intervalMinutes": 5,
		"snapshot.enabled":        true,
		"snapshot.dir":            ".reup",
		"snapshot.format":         "json",
		"telemetry.enabled":       false,
	}
}
