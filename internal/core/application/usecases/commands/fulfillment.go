package commands

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// orderMutation changes a loaded order; the caller persists it.
type orderMutation func(ctx context.Context, uow FulfillmentUoW, o *order.Order) error

// mutateOrder serialises on the order, loads it FOR UPDATE, applies fn and
// writes the order back, replaying the transaction on a version conflict.
func mutateOrder(
	ctx context.Context,
	factory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
	id kernel.UUID,
	fn orderMutation,
) error {
	release, err := lockOrder(ctx, locker, id)
	if err != nil {
		return err
	}
	defer release()

	return retry.Do(ctx, func(ctx context.Context) error {
		uow := factory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()

		repo := uow.OrderRepository()
		o, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err = fn(ctx, uow, o); err != nil {
			return err
		}
		if err = repo.Update(ctx, o); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
}

// cancelAndRestock cancels the order and books an addition for every line.
func cancelAndRestock(
	ctx context.Context,
	repo ports.ProductRepository,
	o *order.Order,
	actor kernel.Actor,
	reason string,
	at time.Time,
) error {
	if err := o.Cancel(actor, reason, at); err != nil {
		return err
	}

	quantities := make(map[kernel.UUID]int)
	for _, item := range o.Items() {
		quantities[item.ProductID] += item.Quantity
	}
	products, err := repo.GetForUpdate(ctx, kernel.SortUUIDs(mapKeys(quantities)))
	if err != nil {
		return err
	}
	requests, err := services.Restorations(quantities, "order cancelled", o.Number(), actor.ID())
	if err != nil {
		return err
	}
	if _, err = services.NewInventoryLedger().Apply(products, requests, at); err != nil {
		return err
	}
	return saveProducts(ctx, repo, products)
}

func saveProducts(ctx context.Context, repo ports.ProductRepository, products []*inventory.Product) error {
	for _, p := range products {
		if len(p.PendingLogs()) == 0 {
			continue
		}
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
