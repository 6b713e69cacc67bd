package commands

import (
	"context"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// RecordPaymentCommandHandler stores a payment. A completed payment confirms a
// pending order on behalf of the system.
type RecordPaymentCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     ports.OrderLocker
	retry      RetryPolicy
}

func NewRecordPaymentCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{uowFactory: uowFactory, locker: locker, retry: retry}
}

// Handle returns the id of the stored payment attempt. Failed attempts are
// stored too and leave the order untouched.
//
// Returns:
//   - order.ErrPaymentAlreadyCompleted for a second completed payment
//   - errs.ErrValueIsInvalid when currency or amount differ from the order
func (h *RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	paymentID := kernel.NewUUID()
	err := mutateOrder(ctx, h.uowFactory, h.locker, h.retry, cmd.OrderID(),
		func(ctx context.Context, uow FulfillmentUoW, o *order.Order) error {
			at := now()
			res := cmd.Result()
			p, err := order.NewPayment(paymentID, o.ID(), res.Gateway, res.TransactionID,
				res.Amount, cmd.Currency(), res.Status, res.Response, at)
			if err != nil {
				return err
			}
			if p.Status() == order.PaymentCompleted {
				if err = matchesOrder(p, o); err != nil {
					return err
				}
			}

			payments := uow.PaymentRepository()
			existing, err := payments.ListByOrder(ctx, o.ID())
			if err != nil {
				return err
			}
			if err = order.EnsureCanRecord(existing, p); err != nil {
				return err
			}
			if err = payments.Add(ctx, p); err != nil {
				return err
			}

			if p.Status() == order.PaymentCompleted && o.Status() == order.Pending {
				return o.Transition(order.Confirmed, kernel.SystemActor(), "payment completed", at)
			}
			return nil
		})
	if err != nil {
		return kernel.UUID{}, err
	}
	return paymentID, nil
}

func matchesOrder(p *order.Payment, o *order.Order) error {
	if p.Currency() != o.Currency().Code() {
		return errs.NewValueIsInvalidErrorWithCause("payment currency",
			fmt.Errorf("order is in %s, payment in %s", o.Currency().Code(), p.Currency()))
	}
	if !p.Amount().Equal(o.Total()) {
		return errs.NewValueIsInvalidErrorWithCause("payment amount",
			fmt.Errorf("order total is %s, payment is %s", o.Total(), p.Amount()))
	}
	return nil
}
