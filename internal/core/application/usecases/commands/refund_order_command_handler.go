package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// RefundOrderCommandHandler refunds the completed payment of an order.
// An order that is still open is cancelled in the same transaction and its
// stock is restored; a delivered order only records the refund.
//
// Example:
//
//	handler := NewRefundOrderCommandHandler(uowFactory, locker, RetryPolicy{Attempts: 3})
//	cmd, err := NewRefundOrderCommand(orderID, admin, "short delivered")
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); errors.Is(err, errs.ErrValueIsRequired) {
//	    // nothing was paid, so there is nothing to refund
//	}
type RefundOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     ports.OrderLocker
	retry      RetryPolicy
}

// NewRefundOrderCommandHandler shares the order locker with the other order commands.
func NewRefundOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
) RefundOrderCommandHandler {
	return RefundOrderCommandHandler{uowFactory: uowFactory, locker: locker, retry: retry}
}

func (h *RefundOrderCommandHandler) Handle(ctx context.Context, cmd RefundOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return mutateOrder(ctx, h.uowFactory, h.locker, h.retry, cmd.OrderID(),
		func(ctx context.Context, uow FulfillmentUoW, o *order.Order) error {
			at := now()
			payments := uow.PaymentRepository()
			existing, err := payments.ListByOrder(ctx, o.ID())
			if err != nil {
				return err
			}
			p := order.CompletedPayment(existing)
			if p == nil {
				return errs.NewValueIsRequiredError("completed payment")
			}

			if err = o.RecordRefund(p, cmd.Actor(), at); err != nil {
				return err
			}
			if err = p.Refund(at); err != nil {
				return err
			}
			if err = payments.Update(ctx, p); err != nil {
				return err
			}

			if o.Status().IsTerminal() {
				return nil
			}
			return cancelAndRestock(ctx, uow.ProductRepository(), o, cmd.Actor(), cmd.Reason(), at)
		})
}
