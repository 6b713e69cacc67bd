package commands

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order and restores the stock reserved at
// checkout in the same transaction.
type CancelOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     ports.OrderLocker
	retry      RetryPolicy
}

func NewCancelOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, locker: locker, retry: retry}
}

// Handle restores every reserved line with an addition movement and then
// cancels. Both happen in one unit of work, so stock and status never diverge.
//
// Returns:
//   - nil on success
//   - kernel.ErrUnauthorizedActor when a customer cancels from ready onwards
//     or cancels someone else's order
//   - order.ErrInvalidTransition if the order is already terminal
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "CancelOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.String("actor.role", string(cmd.Actor().Role())),
	)

	err := mutateOrder(ctx, h.uowFactory, h.locker, h.retry, cmd.OrderID(),
		func(ctx context.Context, uow FulfillmentUoW, o *order.Order) error {
			return cancelAndRestock(ctx, uow.ProductRepository(), o, cmd.Actor(), cmd.Reason(), now())
		})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
