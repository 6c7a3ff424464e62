// Package config defines the configuration model for the IQBandit proxy and
// the loading pipeline that produces it: YAML file, defaults, environment
// overrides, validation.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the iqbandit binary.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Auth      AuthConfig      `yaml:"auth"`
	Limits    LimitsConfig    `yaml:"limits"`
	Logs      LogsConfig      `yaml:"logs"`
	Settings  SettingsConfig  `yaml:"settings"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddress   string        `yaml:"listen_address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes"`
}

// GatewayConfig holds the environment-level defaults for the upstream
// gateway. Values persisted in the settings store take precedence over these
// at request time.
type GatewayConfig struct {
	URL           string        `yaml:"url"`
	Token         string        `yaml:"token"`
	ChatPath      string        `yaml:"chat_path"`
	ChatMode      string        `yaml:"chat_mode"`
	DefaultModel  string        `yaml:"default_model"`
	Timeout       time.Duration `yaml:"timeout"`
	HealthTimeout time.Duration `yaml:"health_timeout"`
}

// AuthConfig holds session and admin-credential settings.
type AuthConfig struct {
	SessionSecret     string        `yaml:"session_secret"`
	CookieName        string        `yaml:"cookie_name"`
	CookieSecure      bool          `yaml:"cookie_secure"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
	AdminEmail        string        `yaml:"admin_email"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
}

// PolicyConfig holds one fixed-window rate-limit policy.
type PolicyConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

// LimitsConfig holds the two rate-limit policies and the sweep cadence.
type LimitsConfig struct {
	Chat          PolicyConfig `yaml:"chat"`
	Login         PolicyConfig `yaml:"login"`
	SweepSchedule string       `yaml:"sweep_schedule"`
}

// LogsConfig holds the audit-log location and retention settings.
type LogsConfig struct {
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
	PruneSchedule string `yaml:"prune_schedule"`
}

// SettingsConfig holds the persisted settings store location.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds structured-logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TelemetryConfig groups logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ChatModeEnabled reports whether the configured chat mode permits proxying.
func (g *GatewayConfig) ChatModeEnabled() bool {
	return g.ChatMode != "disabled"
}

// Validate checks the configuration for values that cannot work at runtime.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if cfg.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway.timeout must be positive, got %s", cfg.Gateway.Timeout)
	}
	if cfg.Gateway.ChatMode != "openclaw" && cfg.Gateway.ChatMode != "disabled" {
		return fmt.Errorf("gateway.chat_mode must be %q or %q, got %q", "openclaw", "disabled", cfg.Gateway.ChatMode)
	}
	if cfg.Limits.Chat.Limit <= 0 || cfg.Limits.Chat.Window <= 0 {
		return fmt.Errorf("limits.chat must have a positive limit and window")
	}
	if cfg.Limits.Login.Limit <= 0 || cfg.Limits.Login.Window <= 0 {
		return fmt.Errorf("limits.login must have a positive limit and window")
	}
	if cfg.Logs.Dir == "" {
		return fmt.Errorf("logs.dir must not be empty")
	}
	if cfg.Logs.RetentionDays < 0 {
		return fmt.Errorf("logs.retention_days must not be negative, got %d", cfg.Logs.RetentionDays)
	}
	switch cfg.Telemetry.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text, got %q", cfg.Telemetry.Logging.Format)
	}
	return nil
}
