package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TociNwaoha/IQBandit/pkg/auditlog"
	"github.com/TociNwaoha/IQBandit/pkg/config"
	"github.com/TociNwaoha/IQBandit/pkg/gateway"
	"github.com/TociNwaoha/IQBandit/pkg/limits/ratelimit"
	"github.com/TociNwaoha/IQBandit/pkg/proxy/handlers"
	"github.com/TociNwaoha/IQBandit/pkg/security/auth"
	"github.com/TociNwaoha/IQBandit/pkg/server"
	"github.com/TociNwaoha/IQBandit/pkg/settings"
	"github.com/TociNwaoha/IQBandit/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watchConfig   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the IQBandit proxy server",
	Long: `Start the IQBandit proxy server with the specified configuration.

Examples:
  # Start with default config
  iqbandit run

  # Start with custom config
  iqbandit run --config /etc/iqbandit/config.yaml

  # Override listen address
  iqbandit run --listen 0.0.0.0:8090

  # Validate config without starting server
  iqbandit run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
	runCmd.Flags().BoolVar(&runFlags.watchConfig, "watch-config", false, "reload gateway defaults when the config file changes")
}

func gatewayDefaults(cfg *config.Config) settings.GatewaySettings {
	return settings.GatewaySettings{
		URL:          cfg.Gateway.URL,
		Token:        cfg.Gateway.Token,
		ChatPath:     cfg.Gateway.ChatPath,
		ChatMode:     cfg.Gateway.ChatMode,
		DefaultModel: cfg.Gateway.DefaultModel,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logging.Setup(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	slog.Info("starting iqbandit", "version", Version)

	// Settings store: environment defaults merged under persisted
	// overrides.
	store, err := settings.NewStore(cfg.Settings.Path, gatewayDefaults(cfg))
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	defer store.Close()

	// Gateway client reads settings per request.
	client := gateway.NewClient(store, gateway.Config{
		Timeout:       cfg.Gateway.Timeout,
		HealthTimeout: cfg.Gateway.HealthTimeout,
	})

	// Audit log: sqlite with ndjson fallback, chosen once here.
	audit := auditlog.NewLogger(cfg.Logs.Dir)
	defer audit.Close()
	slog.Info("audit log ready", "backend", audit.Backend(), "dir", cfg.Logs.Dir)

	if cfg.Logs.RetentionDays > 0 && cfg.Logs.PruneSchedule != "" {
		if sqlite := audit.SQLite(); sqlite != nil {
			pruner, err := auditlog.NewPruner(sqlite, cfg.Logs.PruneSchedule, cfg.Logs.RetentionDays)
			if err != nil {
				return fmt.Errorf("failed to configure audit retention: %w", err)
			}
			if err := pruner.Start(); err != nil {
				return fmt.Errorf("failed to start audit retention: %w", err)
			}
			defer pruner.Stop()
		}
	}

	// Rate limiters: independent chat and login policies plus a shared
	// sweep.
	chatLimiter := ratelimit.New(ratelimit.Policy{
		Name:   "chat",
		Limit:  cfg.Limits.Chat.Limit,
		Window: cfg.Limits.Chat.Window,
	})
	loginLimiter := ratelimit.New(ratelimit.Policy{
		Name:   "login",
		Limit:  cfg.Limits.Login.Limit,
		Window: cfg.Limits.Login.Window,
	})
	janitor, err := ratelimit.NewJanitor(cfg.Limits.SweepSchedule, chatLimiter, loginLimiter)
	if err != nil {
		return fmt.Errorf("failed to configure rate limit sweep: %w", err)
	}
	if err := janitor.Start(); err != nil {
		return fmt.Errorf("failed to start rate limit sweep: %w", err)
	}
	defer janitor.Stop()

	sessions, err := auth.NewManager(auth.Config{
		Secret:       cfg.Auth.SessionSecret,
		CookieName:   cfg.Auth.CookieName,
		CookieSecure: cfg.Auth.CookieSecure,
		TTL:          cfg.Auth.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	srv := server.NewServer(cfg.Server, server.Deps{
		Sessions:       sessions,
		Chat:           handlers.NewChatHandler(client, chatLimiter, audit, store),
		Auth:           handlers.NewAuthHandler(sessions, loginLimiter, cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash),
		Logs:           handlers.NewLogsHandler(audit),
		Settings:       handlers.NewSettingsHandler(store),
		Health:         handlers.NewHealthHandler(client, Version),
		MetricsEnabled: cfg.Telemetry.Metrics.Enabled,
		MetricsPath:    cfg.Telemetry.Metrics.Path,
	})

	// Optional hot reload of the gateway environment defaults. Persisted
	// overrides keep winning; server-level fields still need a restart.
	if runFlags.watchConfig {
		watcher, err := config.NewWatcher(cfgFile, func(next *config.Config) {
			store.SetDefaults(gatewayDefaults(next))
		})
		if err != nil {
			slog.Warn("config watcher unavailable", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return err
		}
		return nil
	}
}
