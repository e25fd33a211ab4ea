package worker

import (
	"context"
	"log/slog"
	"time"

	"quoting-service/internal/services"
)

// SessionJanitor reclaims in-memory state for sessions that went idle:
// wizard sessions and coverage selections. Pruning either is always safe;
// wizard form data survives in Redis and is restored on the next request,
// and coverage selections are refetched on demand.
type SessionJanitor struct {
	wizard    *services.WizardService
	coverages *services.CoverageService
	interval  time.Duration
	maxIdle   time.Duration
	ticker    *time.Ticker
}

func NewSessionJanitor(wizard *services.WizardService, coverages *services.CoverageService, interval, maxIdle time.Duration) *SessionJanitor {
	return &SessionJanitor{
		wizard:    wizard,
		coverages: coverages,
		interval:  interval,
		maxIdle:   maxIdle,
		ticker:    time.NewTicker(interval),
	}
}

// Run blocks until ctx is cancelled. Intended to be started as a goroutine
// from main.
func (j *SessionJanitor) Run(ctx context.Context) {
	slog.Info("session janitor started", "interval", j.interval, "max_idle", j.maxIdle)
	defer j.ticker.Stop()

	for {
		select {
		case <-j.ticker.C:
			if pruned := j.wizard.PruneIdle(j.maxIdle); pruned > 0 {
				slog.Info("idle wizard sessions pruned", "count", pruned)
			}
			if pruned := j.coverages.PruneIdle(j.maxIdle); pruned > 0 {
				slog.Info("idle coverage selections pruned", "count", pruned)
			}
		case <-ctx.Done():
			slog.Info("session janitor shutting down")
			return
		}
	}
}
