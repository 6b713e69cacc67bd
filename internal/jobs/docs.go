// Package jobs runs the scheduled background work of the service on
// github.com/robfig/cron/v3.
//
// # Jobs
//
//  1. OutboxRelayJob publishes committed domain events from the outbox table
//     to the broker. Delivery is at least once; consumers dedupe on the
//     message-id header.
//  2. OrderExpiryJob cancels orders that stayed pending (unpaid) longer than
//     the configured window and restores their stock.
//
// # Usage
//
//	manager := jobs.NewJobManager(relayJob, expiryJob)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// A run that is still in progress when the next tick fires is skipped, so a
// slow broker or a large expiry batch never piles up overlapping runs.
// StopAll waits for running jobs to finish.
package jobs
