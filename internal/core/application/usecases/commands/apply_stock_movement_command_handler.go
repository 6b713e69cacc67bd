package commands

import (
	"context"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
)

// ApplyStockMovementCommandHandler books one movement through the inventory
// ledger and returns the resulting log entry.
type ApplyStockMovementCommandHandler struct {
	uowFactory InventoryUoWFactory
	retry      RetryPolicy
	ledger     services.InventoryLedger
}

func NewApplyStockMovementCommandHandler(uowFactory InventoryUoWFactory, retry RetryPolicy) ApplyStockMovementCommandHandler {
	return ApplyStockMovementCommandHandler{
		uowFactory: uowFactory,
		retry:      retry,
		ledger:     services.NewInventoryLedger(),
	}
}

// Handle returns the inventory log row that was written.
//
// Returns:
//   - the row, with Quantity holding the absolute delta for adjustments
//   - inventory.ErrInsufficientStock when a deduction exceeds stock
//   - errs.ErrValueIsOutOfRange when an addition would overflow the counter
func (h *ApplyStockMovementCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyStockMovementCommand,
) (inventory.LogEntry, error) {
	if err := cmd.Validate(); err != nil {
		return inventory.LogEntry{}, err
	}

	var entry inventory.LogEntry
	err := h.retry.Do(ctx, func(ctx context.Context) error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()

		repo := uow.ProductRepository()
		products, err := repo.GetForUpdate(ctx, []kernel.UUID{cmd.ProductID()})
		if err != nil {
			return err
		}
		entries, err := h.ledger.Apply(products, []services.StockRequest{
			{ProductID: cmd.ProductID(), Movement: cmd.Movement()},
		}, now())
		if err != nil {
			return err
		}
		if err = saveProducts(ctx, repo, products); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}
		entry = entries[0]
		return nil
	})
	return entry, err
}
