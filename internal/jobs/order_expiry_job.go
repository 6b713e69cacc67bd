package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/pkg/metrics"
)

const DefaultOrderExpirySchedule = "0 * * * * *"

type orderExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpirePendingOrdersCommand) (int, error)
}

// OrderExpiryJob cancels unpaid orders older than maxAge.
type OrderExpiryJob struct {
	handler   orderExpirer
	maxAge    time.Duration
	batchSize int
	metrics   *metrics.Metrics
	logger    *zap.Logger
	scheduler scheduler
}

func NewOrderExpiryJob(
	handler orderExpirer,
	schedule string,
	maxAge time.Duration,
	batchSize int,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OrderExpiryJob {
	if schedule == "" {
		schedule = DefaultOrderExpirySchedule
	}
	logger = logger.With(zap.String("component", "order_expiry_job"))
	return &OrderExpiryJob{
		handler:   handler,
		maxAge:    maxAge,
		batchSize: batchSize,
		metrics:   m,
		logger:    logger,
		scheduler: newScheduler(schedule, logger),
	}
}

func (j *OrderExpiryJob) Start() error {
	return j.scheduler.start(j.Run)
}

func (j *OrderExpiryJob) Stop() {
	j.scheduler.stop()
}

// Run performs one expiry pass. Orders cancelled before a failure still count.
func (j *OrderExpiryJob) Run(ctx context.Context) {
	defer j.metrics.ObserveJob("order_expiry")()

	cmd, err := commands.NewExpirePendingOrdersCommand(j.maxAge, j.batchSize)
	if err != nil {
		j.logger.Error("invalid expiry settings", zap.Duration("max_age", j.maxAge), zap.Error(err))
		return
	}

	expired, err := j.handler.Handle(ctx, cmd)
	j.metrics.OrdersExpired.Add(float64(expired))
	if err != nil {
		j.logger.Error("order expiry failed", zap.Int("expired", expired), zap.Error(err))
		return
	}
	if expired > 0 {
		j.logger.Info("expired pending orders", zap.Int("expired", expired))
	}
}
