package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path,
// applies defaults, and validates. A missing file is not an error: the
// defaults alone form a working development configuration.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. A .env file in the working directory is
// read first so local development secrets never have to live in the shell
// profile. Environment variables always take precedence over file-based
// configuration.
//
// The loading sequence is:
// 1. Load .env (if present) into the process environment
// 2. Load YAML from file and apply defaults
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// Ignore the error: a missing .env is the common case.
	_ = godotenv.Load()

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Server/auth/limits variables use the IQBANDIT_SECTION_FIELD
// convention; the gateway defaults keep their historical names so existing
// deployments carry over unchanged.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("IQBANDIT_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("IQBANDIT_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("IQBANDIT_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Gateway defaults, overridable by the persisted settings store at
	// request time.
	if val := os.Getenv("OPENCLAW_GATEWAY_URL"); val != "" {
		cfg.Gateway.URL = val
	}
	if val := os.Getenv("OPENCLAW_GATEWAY_TOKEN"); val != "" {
		cfg.Gateway.Token = val
	}
	if val := os.Getenv("OPENCLAW_CHAT_PATH"); val != "" {
		cfg.Gateway.ChatPath = val
	}
	if val := os.Getenv("STARTCLAW_CHAT_MODE"); val != "" {
		cfg.Gateway.ChatMode = val
	}
	if val := os.Getenv("DEFAULT_MODEL"); val != "" {
		cfg.Gateway.DefaultModel = val
	}

	if val := os.Getenv("IQBANDIT_AUTH_SESSION_SECRET"); val != "" {
		cfg.Auth.SessionSecret = val
	}
	if val := os.Getenv("IQBANDIT_AUTH_COOKIE_SECURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Auth.CookieSecure = b
		}
	}
	if val := os.Getenv("IQBANDIT_AUTH_ADMIN_EMAIL"); val != "" {
		cfg.Auth.AdminEmail = val
	}
	if val := os.Getenv("IQBANDIT_AUTH_ADMIN_PASSWORD_HASH"); val != "" {
		cfg.Auth.AdminPasswordHash = val
	}

	if val := os.Getenv("IQBANDIT_LIMITS_CHAT_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limits.Chat.Limit = i
		}
	}
	if val := os.Getenv("IQBANDIT_LIMITS_CHAT_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Limits.Chat.Window = d
		}
	}
	if val := os.Getenv("IQBANDIT_LIMITS_LOGIN_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limits.Login.Limit = i
		}
	}
	if val := os.Getenv("IQBANDIT_LIMITS_LOGIN_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Limits.Login.Window = d
		}
	}

	if val := os.Getenv("IQBANDIT_LOGS_DIR"); val != "" {
		cfg.Logs.Dir = val
	}
	if val := os.Getenv("IQBANDIT_LOGS_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Logs.RetentionDays = i
		}
	}
	if val := os.Getenv("IQBANDIT_SETTINGS_PATH"); val != "" {
		cfg.Settings.Path = val
	}

	if val := os.Getenv("IQBANDIT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("IQBANDIT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("IQBANDIT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
