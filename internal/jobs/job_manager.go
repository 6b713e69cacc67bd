package jobs

import (
	"fmt"
)

// JobManager starts and stops every scheduled job together.
type JobManager struct {
	outboxRelayJob *OutboxRelayJob
	orderExpiryJob *OrderExpiryJob
}

func NewJobManager(outboxRelayJob *OutboxRelayJob, orderExpiryJob *OrderExpiryJob) *JobManager {
	return &JobManager{
		outboxRelayJob: outboxRelayJob,
		orderExpiryJob: orderExpiryJob,
	}
}

// StartAll starts all scheduled jobs. Jobs already started are stopped again
// when a later one fails.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.orderExpiryJob.Start(); err != nil {
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start order expiry job: %w", err)
	}

	return nil
}

// StopAll stops all jobs and waits for running passes to finish.
func (jm *JobManager) StopAll() {
	jm.orderExpiryJob.Stop()
	jm.outboxRelayJob.Stop()
}
