package commands

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// RecordDeliveryCommandHandler stores the proof and marks the order delivered.
type RecordDeliveryCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     ports.OrderLocker
	retry      RetryPolicy
}

func NewRecordDeliveryCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
) RecordDeliveryCommandHandler {
	return RecordDeliveryCommandHandler{uowFactory: uowFactory, locker: locker, retry: retry}
}

// Handle fails with errs.ErrValueIsInvalid if proof was already captured.
// Corrections go through a delivery issue instead.
func (h *RecordDeliveryCommandHandler) Handle(ctx context.Context, cmd RecordDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return mutateOrder(ctx, h.uowFactory, h.locker, h.retry, cmd.OrderID(),
		func(_ context.Context, _ FulfillmentUoW, o *order.Order) error {
			at := now()
			ev := cmd.Evidence()
			proof, err := order.NewDeliveryProof(
				kernel.NewUUID(), o.ID(),
				ev.SignatureKey, ev.PhotoKey, ev.RecipientName, ev.LeftAtDoor,
				*cmd.Actor().ID(), at,
			)
			if err != nil {
				return err
			}
			return o.Deliver(proof, cmd.Actor(), at)
		})
}
