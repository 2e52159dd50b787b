package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs named maintenance jobs on cron specs. Jobs never overlap
// with themselves and a panicking job is recovered and logged.
type Scheduler struct {
	c      *cron.Cron
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{l: logger}
	return &Scheduler{
		c: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// Add registers fn under name. spec accepts standard cron expressions and
// descriptors such as "@every 1m".
func (s *Scheduler) Add(name, spec string, fn func()) error {
	_, err := s.c.AddFunc(spec, func() {
		s.logger.Debug("scheduler: run job", "job", name)
		fn()
	})
	if err != nil {
		return fmt.Errorf("scheduler: add job %q (%s): %w", name, spec, err)
	}
	s.logger.Info("scheduler: added job", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
