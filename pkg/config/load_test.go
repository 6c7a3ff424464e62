package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iqbandit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Gateway.URL != DefaultGatewayURL {
		t.Errorf("Gateway.URL = %q, want %q", cfg.Gateway.URL, DefaultGatewayURL)
	}
	if cfg.Limits.Chat.Limit != 20 || cfg.Limits.Chat.Window != 60*time.Second {
		t.Errorf("chat policy = %d/%s, want 20/60s", cfg.Limits.Chat.Limit, cfg.Limits.Chat.Window)
	}
	if cfg.Limits.Login.Limit != 10 || cfg.Limits.Login.Window != 300*time.Second {
		t.Errorf("login policy = %d/%s, want 10/300s", cfg.Limits.Login.Limit, cfg.Limits.Login.Window)
	}
	if cfg.Server.WriteTimeout != 0 {
		t.Errorf("WriteTimeout = %s, want 0 so streams are never severed", cfg.Server.WriteTimeout)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:9000"
gateway:
  url: "http://gateway.internal:19001"
  chat_mode: "disabled"
limits:
  chat:
    limit: 5
    window: 30s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Gateway.URL != "http://gateway.internal:19001" {
		t.Errorf("Gateway.URL = %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.ChatModeEnabled() {
		t.Error("ChatModeEnabled() = true, want false for disabled")
	}
	if cfg.Limits.Chat.Limit != 5 || cfg.Limits.Chat.Window != 30*time.Second {
		t.Errorf("chat policy = %d/%s", cfg.Limits.Chat.Limit, cfg.Limits.Chat.Window)
	}
	// Unset fields still get defaults.
	if cfg.Gateway.ChatPath != DefaultChatPath {
		t.Errorf("ChatPath = %q, want default", cfg.Gateway.ChatPath)
	}
	if cfg.Limits.Login.Limit != 10 {
		t.Errorf("login limit = %d, want default 10", cfg.Limits.Login.Limit)
	}
}

func TestLoadConfigRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() accepted malformed YAML")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad chat mode", "gateway:\n  chat_mode: maybe\n"},
		{"negative retention", "logs:\n  retention_days: -1\n"},
		{"bad log level", "telemetry:\n  logging:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("LoadConfig() accepted %q", tt.content)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENCLAW_GATEWAY_URL", "http://env-gateway:19001")
	t.Setenv("OPENCLAW_GATEWAY_TOKEN", "env-token")
	t.Setenv("STARTCLAW_CHAT_MODE", "disabled")
	t.Setenv("IQBANDIT_SERVER_LISTEN_ADDRESS", "127.0.0.1:7777")
	t.Setenv("IQBANDIT_LIMITS_CHAT_LIMIT", "3")

	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Gateway.URL != "http://env-gateway:19001" {
		t.Errorf("Gateway.URL = %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.Token != "env-token" {
		t.Errorf("Gateway.Token = %q", cfg.Gateway.Token)
	}
	if cfg.Gateway.ChatMode != "disabled" {
		t.Errorf("ChatMode = %q", cfg.Gateway.ChatMode)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:7777" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Limits.Chat.Limit != 3 {
		t.Errorf("chat limit = %d", cfg.Limits.Chat.Limit)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := writeConfig(t, "gateway:\n  url: \"http://file-gateway:19001\"\n")
	t.Setenv("OPENCLAW_GATEWAY_URL", "http://env-gateway:19001")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Gateway.URL != "http://env-gateway:19001" {
		t.Errorf("Gateway.URL = %q, want the environment to win", cfg.Gateway.URL)
	}
}

func TestEnvOverrideInvalidValueFailsValidation(t *testing.T) {
	t.Setenv("STARTCLAW_CHAT_MODE", "sometimes")

	if _, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("invalid chat mode from the environment was accepted")
	}
}
