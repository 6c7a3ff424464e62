package config

import "time"

// Default values applied to any field left zero by the YAML file.
const (
	DefaultListenAddress   = "127.0.0.1:8090"
	DefaultGatewayURL      = "http://127.0.0.1:19001"
	DefaultChatPath        = "/v1/chat/completions"
	DefaultChatMode        = "openclaw"
	DefaultModel           = "openclaw:main"
	DefaultCookieName      = "iqbandit_session"
	DefaultLogsDir         = "logs"
	DefaultSettingsPath    = "data/settings.db"
	DefaultSweepSchedule   = "*/5 * * * *"
	DefaultMetricsPath     = "/metrics"
	DefaultGatewayTimeout  = 30 * time.Second
	DefaultHealthTimeout   = 5 * time.Second
	DefaultSessionTTL      = 7 * 24 * time.Hour
	DefaultShutdownTimeout = 10 * time.Second
)

// ApplyDefaults fills in zero-valued fields with the documented defaults.
// It is called after YAML parsing and before validation.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 60 * time.Second
	}
	// WriteTimeout stays zero by default: a deadline here would sever
	// SSE relays that legitimately run for minutes.
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 90 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20
	}

	if cfg.Gateway.URL == "" {
		cfg.Gateway.URL = DefaultGatewayURL
	}
	if cfg.Gateway.ChatPath == "" {
		cfg.Gateway.ChatPath = DefaultChatPath
	}
	if cfg.Gateway.ChatMode == "" {
		cfg.Gateway.ChatMode = DefaultChatMode
	}
	if cfg.Gateway.DefaultModel == "" {
		cfg.Gateway.DefaultModel = DefaultModel
	}
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = DefaultGatewayTimeout
	}
	if cfg.Gateway.HealthTimeout == 0 {
		cfg.Gateway.HealthTimeout = DefaultHealthTimeout
	}

	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = DefaultCookieName
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = DefaultSessionTTL
	}

	if cfg.Limits.Chat.Limit == 0 {
		cfg.Limits.Chat.Limit = 20
	}
	if cfg.Limits.Chat.Window == 0 {
		cfg.Limits.Chat.Window = 60 * time.Second
	}
	if cfg.Limits.Login.Limit == 0 {
		cfg.Limits.Login.Limit = 10
	}
	if cfg.Limits.Login.Window == 0 {
		cfg.Limits.Login.Window = 300 * time.Second
	}
	if cfg.Limits.SweepSchedule == "" {
		cfg.Limits.SweepSchedule = DefaultSweepSchedule
	}

	if cfg.Logs.Dir == "" {
		cfg.Logs.Dir = DefaultLogsDir
	}
	if cfg.Settings.Path == "" {
		cfg.Settings.Path = DefaultSettingsPath
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
