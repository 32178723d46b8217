// Package janitor purges aged login-attempt rows on a cron schedule so the
// table does not grow without bound.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/authshop/auth-service/internal/repository"
)

type Janitor struct {
	users     repository.UserRepository
	logger    *slog.Logger
	retention time.Duration
	schedule  string
	cron      *cron.Cron
}

func New(users repository.UserRepository, logger *slog.Logger, retention time.Duration, schedule string) *Janitor {
	return &Janitor{
		users:     users,
		logger:    logger.With("component", "janitor"),
		retention: retention,
		schedule:  schedule,
		cron:      cron.New(),
	}
}

// Start registers the purge job and launches the cron scheduler. Returns an
// error if the schedule expression does not parse.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.Purge(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("janitor started", "schedule", j.schedule, "retention", j.retention)
	return nil
}

// Stop halts the scheduler and waits for an in-flight purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("janitor stopped")
}

func (j *Janitor) Purge(ctx context.Context) {
	cutoff := time.Now().Add(-j.retention)

	purged, err := j.users.PurgeLoginAttempts(ctx, cutoff)
	if err != nil {
		j.logger.Error("purge login attempts", "error", err)
		return
	}
	if purged > 0 {
		j.logger.Info("purged login attempts", "count", purged, "cutoff", cutoff)
	}
}
