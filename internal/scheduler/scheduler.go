// Package scheduler triggers ingestion runs on a cron schedule from a
// separate process. The API server itself never schedules work.
package scheduler

import (
	"context"
	"fmt"

	"github.com/deusflow/sportabase/internal/logger"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron    *cron.Cron
	entryID cron.EntryID
}

// New registers job under a standard five-field cron spec (descriptors such as
// "@hourly" also work). A run that is still going when the next tick fires
// causes that tick to be skipped.
func New(spec string, job func(ctx context.Context)) (*Scheduler, error) {
	l := cronLogger{}
	c := cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)

	s := &Scheduler{cron: c}
	id, err := c.AddFunc(spec, func() { job(context.Background()) })
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	s.entryID = id
	return s, nil
}

// Run starts the schedule and blocks until ctx is cancelled, then waits for
// any job in flight to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	logger.Info("scheduler started", "next_run", s.cron.Entry(s.entryID).Next)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
