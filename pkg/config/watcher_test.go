package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iqbandit.yaml")
	if err := os.WriteFile(path, []byte("gateway:\n  url: \"http://one:19001\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("gateway:\n  url: \"http://two:19001\"\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Gateway.URL != "http://two:19001" {
			t.Errorf("Gateway.URL = %q, want the rewritten value", cfg.Gateway.URL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestWatcherKeepsOldConfigOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iqbandit.yaml")
	if err := os.WriteFile(path, []byte("gateway:\n  url: \"http://one:19001\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	// A broken file must not reach the callback.
	if err := os.WriteFile(path, []byte("gateway: [broken"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("broken config was delivered: %+v", cfg)
	case <-time.After(time.Second):
	}

	// A subsequent good write recovers.
	if err := os.WriteFile(path, []byte("gateway:\n  url: \"http://three:19001\"\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Gateway.URL != "http://three:19001" {
			t.Errorf("Gateway.URL = %q", cfg.Gateway.URL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after recovery")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iqbandit.yaml")

	w, err := NewWatcher(path, func(*Config) {})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
