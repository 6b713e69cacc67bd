package jobs

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/pkg/metrics"
)

const DefaultOutboxRelaySchedule = "*/2 * * * * *"

type outboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayResult, error)
}

// OutboxRelayJob drains the outbox in batches.
type OutboxRelayJob struct {
	handler   outboxRelayer
	batchSize int
	metrics   *metrics.Metrics
	logger    *zap.Logger
	scheduler scheduler
}

func NewOutboxRelayJob(
	handler outboxRelayer,
	schedule string,
	batchSize int,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OutboxRelayJob {
	if schedule == "" {
		schedule = DefaultOutboxRelaySchedule
	}
	logger = logger.With(zap.String("component", "outbox_relay_job"))
	return &OutboxRelayJob{
		handler:   handler,
		batchSize: batchSize,
		metrics:   m,
		logger:    logger,
		scheduler: newScheduler(schedule, logger),
	}
}

func (j *OutboxRelayJob) Start() error {
	return j.scheduler.start(j.Run)
}

func (j *OutboxRelayJob) Stop() {
	j.scheduler.stop()
}

// Run performs one relay pass.
func (j *OutboxRelayJob) Run(ctx context.Context) {
	defer j.metrics.ObserveJob("outbox_relay")()

	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.Error("invalid relay batch size", zap.Int("batch_size", j.batchSize), zap.Error(err))
		return
	}

	res, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("outbox relay failed", zap.Error(err))
		return
	}

	j.metrics.OutboxPublished.Add(float64(res.Published))
	j.metrics.OutboxFailed.Add(float64(res.Failed))
	if res.Failed > 0 {
		j.logger.Warn("outbox messages not published",
			zap.Int("failed", res.Failed),
			zap.Int("published", res.Published),
		)
	} else if res.Published > 0 {
		j.logger.Debug("outbox relayed", zap.Int("published", res.Published))
	}
}
