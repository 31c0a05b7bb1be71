// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/modhost/modhost/internal/config"
	"github.com/modhost/modhost/internal/host"
	"github.com/modhost/modhost/internal/logging"
	"github.com/modhost/modhost/internal/observability"
	"github.com/modhost/modhost/pkg/errutil"
)

// shutdownTimeout bounds graceful shutdown of the observability server.
const shutdownTimeout = 10 * time.Second

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the plugin host",
		Long: `Start the plugin host: load every plugin module from the plugins
directory, serve observability endpoints, and dispatch events until
interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHost(cmd.Context(), cmd.Flags())
		},
	}

	config.BindFlags(cmd.Flags())
	return cmd
}

func runHost(ctx context.Context, flags *pflag.FlagSet) error {
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.Setup("modhost", version, cfg.LogFormat, nil)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	slog.SetDefault(logger)

	globs, err := host.CompileIgnorePatterns(cfg.Ignore)
	if err != nil {
		return fmt.Errorf("invalid ignore patterns: %w", err)
	}

	registry := observability.NewRegistry()
	metrics := host.NewMetrics(registry)

	loader := host.NewLoader(host.WithIgnoreGlobs(globs...))
	mgr := host.NewManager(cfg.PluginsDir,
		host.WithLoader(loader),
		host.WithMetrics(metrics),
	)

	var ready atomic.Bool
	var obs *observability.Server
	var obsErrs <-chan error
	if cfg.MetricsAddr != "" {
		obs = observability.NewServer(cfg.MetricsAddr, registry, ready.Load)
		obsErrs, err = obs.Start()
		if err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
	}

	slog.Info("starting plugin host",
		"plugins_dir", cfg.PluginsDir,
		"log_format", cfg.LogFormat,
	)

	if err := mgr.LoadAll(); err != nil {
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == host.CodeLoadPartial {
			// Partial failure: validly loaded plugins stay registered and usable.
			errutil.LogError(slog.Default(), "some plugin candidates failed to load", err)
		} else {
			return fmt.Errorf("load plugins: %w", err)
		}
	}
	ready.Store(true)

	slog.Info("plugin host running", "plugins", mgr.Plugins())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr := <-obsErrs:
		if serveErr != nil {
			errutil.LogError(slog.Default(), "observability server failed", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}
	if err := mgr.Close(shutdownCtx); err != nil {
		slog.Warn("error closing plugin manager", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
