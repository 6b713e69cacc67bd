package ports

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/kernel"
)

// OutboxMessage is a domain event waiting to be relayed to the message broker.
type OutboxMessage struct {
	ID          kernel.UUID
	Topic       string
	Key         string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
	Attempts    int
	LastError   string
}

type OutboxRepository interface {
	Add(ctx context.Context, messages ...OutboxMessage) error

	// GetUnpublished locks up to limit unpublished messages, oldest first,
	// skipping rows locked by another relay.
	GetUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id kernel.UUID, reason string) error
}

// MessagePublisher delivers outbox messages to the broker.
type MessagePublisher interface {
	Publish(ctx context.Context, messages ...OutboxMessage) error
	Close() error
}
