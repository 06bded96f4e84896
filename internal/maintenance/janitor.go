// Package maintenance runs the background housekeeping jobs of the server.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionPurger removes sessions that expired before the reference instant.
type SessionPurger interface {
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// Janitor periodically purges expired sessions on a cron schedule.
type Janitor struct {
	purger   SessionPurger
	schedule string
	now      func() time.Time
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewJanitor builds a janitor that fires on the given cron expression. An
// empty schedule falls back to an hourly purge.
func NewJanitor(purger SessionPurger, schedule string, logger *slog.Logger) *Janitor {
	if schedule == "" {
		schedule = "@hourly"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		purger:   purger,
		schedule: schedule,
		now:      time.Now,
		logger:   logger,
	}
}

// Start registers the purge job and launches the cron scheduler. The returned
// error only reflects schedule parsing; job failures are logged and retried on
// the next tick.
func (j *Janitor) Start(ctx context.Context) error {
	j.cron = cron.New()
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(ctx, "session janitor started", "schedule", j.schedule)
	return nil
}

// RunOnce purges expired sessions immediately. Start calls it on every tick;
// it is also exposed so the server can purge on boot.
func (j *Janitor) RunOnce(ctx context.Context) {
	if j == nil || j.purger == nil {
		return
	}

	reference := j.now()
	if err := j.purger.DeleteExpiredSessions(ctx, reference); err != nil {
		j.logger.ErrorContext(ctx, "failed to purge expired sessions", "error", err)
		return
	}
	j.logger.InfoContext(ctx, "expired sessions purged", "reference", reference)
}

// Stop halts the scheduler and waits for a running job to finish.
func (j *Janitor) Stop() {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	<-stopCtx.Done()
}
