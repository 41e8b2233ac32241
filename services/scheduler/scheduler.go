// Package scheduler fires the check pipeline on a fixed interval and once
// at startup.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/pkg/errors"
)

// Job is the work fired on every tick
type Job func(ctx context.Context)

// Scheduler wraps robfig/cron. Overlapping runs are skipped.
type Scheduler struct {
	cron     *cron.Cron
	interval time.Duration
	job      Job
	log      *logger.Logger
}

// New creates a scheduler firing job every interval
func New(interval time.Duration, job Job) *Scheduler {
	log := logger.ForScheduler()
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLogger{log: log})),
		interval: interval,
		job:      job,
		log:      log,
	}
}

// Spec returns the cron spec of the interval, e.g. "@every 30m0s"
func (s *Scheduler) Spec() string {
	return fmt.Sprintf("@every %s", s.interval)
}

// Run registers the job, runs it once immediately and blocks until ctx is
// done. It then waits for a running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.NewConfiguration("check interval must be positive", nil)
	}

	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{log: s.log})).
		Then(cron.FuncJob(func() { s.job(ctx) }))

	if _, err := s.cron.AddJob(s.Spec(), job); err != nil {
		return errors.NewConfiguration("invalid schedule "+s.Spec(), err)
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.Spec()).Msg("Scheduler started")

	// Run immediately on startup so lots are fresh without waiting for the first tick
	var eager sync.WaitGroup
	eager.Add(1)
	go func() {
		defer eager.Done()
		job.Run()
	}()

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	eager.Wait()
	s.log.Info().Msg("Scheduler stopped")
	return nil
}

// cronLogger adapts the component logger to cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
