package core

// scheduler.go runs background maintenance:
//  1. Purge audit entries older than the retention period
//  2. Drop expired range exports from memory
//
// Both loops stop when their context is cancelled. Failures are logged and
// the loop keeps going.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig configures the audit retention scheduler.
type RetentionConfig struct {
	RetentionDays int           // Days to keep audit entries (default: 90)
	CheckInterval time.Duration // How often to purge (default: 24h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = 90
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartRetentionScheduler purges old audit entries immediately and then
// every CheckInterval until ctx is cancelled.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("audit retention scheduler started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.CheckInterval,
	)

	s.runRetentionJob(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg)
		}
	}
}

func (s *Service) runRetentionJob(ctx context.Context, cfg RetentionConfig) {
	start := time.Now()
	cutoff := start.AddDate(0, 0, -cfg.RetentionDays)

	purged, err := s.audit.Purge(ctx, cutoff)
	if err != nil {
		slog.Error("audit purge failed", "error", err)
		return
	}
	slog.Info("purged audit entries",
		"entries_purged", purged,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// StartExportJanitor drops expired exports every interval until ctx is
// cancelled. A non-positive interval defaults to one minute.
func (s *Service) StartExportJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.exports.sweep(); n > 0 {
				slog.Debug("expired exports removed", "count", n, "remaining", s.exports.len())
			}
		}
	}
}
