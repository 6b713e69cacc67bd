package commands

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// ExpirePendingOrdersCommandHandler cancels stale pending orders one by one on
// behalf of the system, restoring their stock. Orders that moved on since they
// were listed are skipped.
type ExpirePendingOrdersCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     ports.OrderLocker
	retry      RetryPolicy
}

func NewExpirePendingOrdersCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
) ExpirePendingOrdersCommandHandler {
	return ExpirePendingOrdersCommandHandler{uowFactory: uowFactory, locker: locker, retry: retry}
}

// Handle returns the number of orders cancelled.
func (h *ExpirePendingOrdersCommandHandler) Handle(ctx context.Context, cmd ExpirePendingOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	ids, err := h.listStale(ctx, cmd)
	if err != nil {
		return 0, err
	}

	var (
		expired int
		errList []error
	)
	reason := fmt.Sprintf("unpaid after %s", cmd.MaxAge())
	for _, id := range ids {
		err = mutateOrder(ctx, h.uowFactory, h.locker, h.retry, id,
			func(ctx context.Context, uow FulfillmentUoW, o *order.Order) error {
				if o.Status() != order.Pending {
					return errSkipExpiry
				}
				return cancelAndRestock(ctx, uow.ProductRepository(), o, kernel.SystemActor(), reason, now())
			})
		switch {
		case err == nil:
			expired++
		case errors.Is(err, errSkipExpiry):
		default:
			errList = append(errList, fmt.Errorf("order %s: %w", id, err))
		}
		if ctx.Err() != nil {
			break
		}
	}
	return expired, errors.Join(errList...)
}

var errSkipExpiry = errors.New("order is no longer pending")

func (h *ExpirePendingOrdersCommandHandler) listStale(ctx context.Context, cmd ExpirePendingOrdersCommand) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()
	return uow.OrderRepository().ListPendingBefore(ctx, now().Add(-cmd.MaxAge()), cmd.BatchSize())
}
