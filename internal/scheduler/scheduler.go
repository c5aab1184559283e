package scheduler

import (
	"context"
	"fmt"
	"time"

	"intern-match/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSpec fires once a day at 05:00 in the recommendation time zone.
const DefaultSpec = "0 5 * * *"

// Scheduler wraps robfig/cron and runs the warm-up on a standard 5-field spec.
// Overlapping runs are skipped.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	warmer *Warmer
	logger *zap.Logger
}

func New(spec string, loc *time.Location, warmer *Warmer, log *zap.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if loc == nil {
		loc = time.UTC
	}
	log = logger.OrNop(log)
	cl := cronLogger{l: log.Sugar()}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		spec:   spec,
		warmer: warmer,
		logger: log,
	}
}

// Start registers the warm-up and starts the cron loop. ctx bounds every run.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.warmer == nil {
		return fmt.Errorf("scheduler: nil warmer")
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.warmer.Run(ctx); err != nil {
			s.logger.Warn("scheduled warm-up aborted", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop halts the loop and waits for a running warm-up to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Next reports the next planned run, zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
