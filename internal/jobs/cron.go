package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"storefront/internal/pkg/logger"
)

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// scheduler is a single-entry cron that skips overlapping runs.
type scheduler struct {
	cron *cron.Cron
	spec string
	log  *zap.Logger
}

func newScheduler(spec string, log *zap.Logger) scheduler {
	cl := cronLogger{s: log.Sugar()}
	return scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		spec: spec,
		log:  log,
	}
}

func (s scheduler) start(run func(ctx context.Context)) error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		run(logger.WithContext(context.Background(), s.log))
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("job started", zap.String("schedule", s.spec))
	return nil
}

func (s scheduler) stop() {
	<-s.cron.Stop().Done()
	s.log.Info("job stopped")
}
