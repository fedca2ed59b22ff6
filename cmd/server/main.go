package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/dxcodes/internal/audit"
	"github.com/JonMunkholm/dxcodes/internal/config"
	"github.com/JonMunkholm/dxcodes/internal/core"
	_ "github.com/JonMunkholm/dxcodes/internal/core/formats" // Register upload formats
	"github.com/JonMunkholm/dxcodes/internal/logging"
	"github.com/JonMunkholm/dxcodes/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	store, err := audit.Open(ctx, cfg.Audit.Driver, cfg.Audit.URL)
	if err != nil {
		slog.Error("failed to open audit store", "driver", cfg.Audit.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("audit store ready", "driver", cfg.Audit.Driver)

	service, err := core.NewService(core.Options{
		PreviewRows:   cfg.Analysis.PreviewRows,
		MaxConcurrent: cfg.Analysis.MaxConcurrent,
		MaxWait:       cfg.Analysis.MaxWaitTime,
		CacheSize:     cfg.Analysis.CacheSize,
		ExportTTL:     cfg.Analysis.ExportTTL,
	}, store)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	slog.Info("formats registered",
		"count", core.FormatCount(),
		"extensions", core.AcceptedExtensions(),
	)
	slog.Info("chapters loaded", "count", core.CategoryCount())

	server := web.NewServer(cfg, service)

	// Background jobs stop when the server shuts down
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	go service.StartRetentionScheduler(jobCtx, core.RetentionConfig{
		RetentionDays: cfg.Audit.RetentionDays,
		CheckInterval: cfg.Audit.CheckInterval,
	})
	go service.StartExportJanitor(jobCtx, cfg.Analysis.ExportTTL/2)

	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for analyses to complete", "active", status.Active)
			if err := service.WaitForAnalyses(shutdownCtx); err != nil {
				slog.Warn("analyses did not complete in time", "error", err)
			} else {
				slog.Info("all analyses completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
