package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// TransitionOrderCommandHandler moves an order one step along its lifecycle
// and appends the matching history row. Cancellation has its own handler,
// because it also has to restore stock.
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, locker, RetryPolicy{Attempts: 3})
//	cmd, _ := NewTransitionOrderCommand(orderID, staff, order.Processing, "picking")
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // not the next status for this delivery method
//	case errors.Is(err, kernel.ErrUnauthorizedActor):
//	    // customers cannot advance orders
//	case errors.Is(err, errs.ErrConcurrencyConflict):
//	    // lost the version race on every attempt
//	}
type TransitionOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     ports.OrderLocker
	retry      RetryPolicy
}

func NewTransitionOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{uowFactory: uowFactory, locker: locker, retry: retry}
}

// Handle holds the order lock for the whole call and retries the unit of
// work on version conflicts.
//
// Returns:
//   - nil when the order moved and its history row was written
//   - errs.ErrObjectNotFound if the order does not exist
//   - order.ErrInvalidTransition for skipped, backward or terminal moves
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return mutateOrder(ctx, h.uowFactory, h.locker, h.retry, cmd.OrderID(),
		func(_ context.Context, _ FulfillmentUoW, o *order.Order) error {
			return o.Transition(cmd.Target(), cmd.Actor(), cmd.Note(), now())
		})
}
