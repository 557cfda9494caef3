package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Janitor deletes tasks older than maxAge on a cron schedule.
type Janitor struct {
	store    Store
	schedule string
	maxAge   time.Duration
	cron     *cron.Cron
}

func NewJanitor(store Store, schedule string, maxAge time.Duration) *Janitor {
	return &Janitor{
		store:    store,
		schedule: schedule,
		maxAge:   maxAge,
		cron:     cron.New(),
	}
}

func (j *Janitor) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.sweep)
	if err != nil {
		return eris.Wrapf(err, "janitor: bad schedule %q", j.schedule)
	}
	j.cron.Start()
	zap.L().Info("retention janitor started",
		zap.String("schedule", j.schedule),
		zap.Duration("max_age", j.maxAge))
	return nil
}

func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := j.store.DeleteExpired(ctx, j.maxAge)
	if err != nil {
		zap.L().Error("retention sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		zap.L().Info("retention sweep removed expired tasks", zap.Int("count", deleted))
	}
}
