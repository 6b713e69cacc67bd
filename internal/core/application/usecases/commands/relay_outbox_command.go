package commands

import (
	"context"
	"errors"

	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

// RelayOutboxCommand publishes one batch of outbox messages.
type RelayOutboxCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewRelayOutboxCommand(batchSize int) (RelayOutboxCommand, error) {
	if batchSize <= 0 {
		return RelayOutboxCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return RelayOutboxCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int { return c.batchSize }

// RelayResult counts what one relay pass did.
type RelayResult struct {
	Published int
	Failed    int
}

// RelayOutboxCommandHandler locks a batch of unpublished messages, publishes
// each one and marks it published or failed. A failed message is retried on
// the next pass; delivery is at least once.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.MessagePublisher
}

func NewRelayOutboxCommandHandler(uowFactory OutboxUoWFactory, publisher ports.MessagePublisher) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle publishes one batch. Messages are marked published only after the
// broker accepted them, so a crash in between republishes the batch; consumers
// dedupe on the message id.
func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (RelayResult, error) {
	if err := cmd.Validate(); err != nil {
		return RelayResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RelayResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OutboxRepository()
	messages, err := repo.GetUnpublished(ctx, cmd.BatchSize())
	if err != nil {
		return RelayResult{}, err
	}

	var res RelayResult
	for _, msg := range messages {
		if pubErr := h.publisher.Publish(ctx, msg); pubErr != nil {
			if err = repo.MarkFailed(ctx, msg.ID, pubErr.Error()); err != nil {
				return RelayResult{}, err
			}
			res.Failed++
			continue
		}
		if err = repo.MarkPublished(ctx, msg.ID, now()); err != nil {
			return RelayResult{}, err
		}
		res.Published++
	}

	if err = uow.Commit(ctx); err != nil {
		return RelayResult{}, err
	}
	return res, nil
}
