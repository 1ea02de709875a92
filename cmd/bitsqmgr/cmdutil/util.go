// Package cmdutil provides shared setup helpers for bitsqmgr commands.
package cmdutil

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/marmos91/bitsqmgr/internal/logger"
	"github.com/marmos91/bitsqmgr/internal/metrics"
	"github.com/marmos91/bitsqmgr/pkg/config"
)

// Setup loads configuration from configPath (falling back to defaults if
// it does not exist), applies the given flag overrides, initializes the
// structured logger, and enables Prometheus metrics if metricsAddr is
// non-empty. It returns the resolved config.
func Setup(configPath, logLevel, logFormat, metricsAddr string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = metricsAddr
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.Enable()
	}

	return cfg, nil
}

// ServeMetrics starts the Prometheus metrics HTTP server in the
// background if metrics are enabled. It returns a shutdown function that
// is safe to call even if metrics were never enabled.
func ServeMetrics(addr string) func(context.Context) error {
	if !metrics.IsEnabled() || addr == "" {
		return func(context.Context) error { return nil }
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()
	logger.Info("metrics server listening", "addr", addr)

	return func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
